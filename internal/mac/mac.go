// Package mac — нормализация и разбор аппаратных идентификаторов телефонов.
package mac

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMAC возвращается, если строка не сводится к 12 hex-символам.
var ErrInvalidMAC = errors.New("invalid mac address")

const canonicalLen = 12

// Normalize приводит MAC к канонической форме: 12 hex-символов в нижнем
// регистре без разделителей. Принимает записи вида 001565123456,
// 00:15:65:12:34:56, 00-15-65-12-34-56 и 0015.6512.3456.
// Идемпотентна: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) (string, error) {
	r := strings.NewReplacer(":", "", "-", "", ".", "")
	clean := r.Replace(strings.ToLower(strings.TrimSpace(raw)))

	if len(clean) != canonicalLen || !isHex(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMAC, raw)
	}
	return clean, nil
}

// Format расставляет разделители обратно.
// sep "" — без разделителей; "." — cisco-стиль по 4 символа;
// иначе — парами через sep. upper переключает регистр.
func Format(raw, sep string, upper bool) (string, error) {
	clean, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	if upper {
		clean = strings.ToUpper(clean)
	}

	switch sep {
	case "":
		return clean, nil
	case ".":
		return clean[0:4] + "." + clean[4:8] + "." + clean[8:12], nil
	default:
		pairs := make([]string, 0, 6)
		for i := 0; i < canonicalLen; i += 2 {
			pairs = append(pairs, clean[i:i+2])
		}
		return strings.Join(pairs, sep), nil
	}
}

// OUI возвращает первые 3 байта MAC (6 hex-символов, верхний регистр).
func OUI(raw string) (string, error) {
	clean, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(clean[:6]), nil
}

// DetectVendor определяет производителя по OUI-префиксу.
// ouiMap: имя вендора → список префиксов (в любой записи).
// Пустая строка — вендор неизвестен.
func DetectVendor(raw string, ouiMap map[string][]string) string {
	oui, err := OUI(raw)
	if err != nil {
		return ""
	}
	norm := strings.NewReplacer(":", "", "-", "")
	for vendor, prefixes := range ouiMap {
		for _, p := range prefixes {
			if oui == norm.Replace(strings.ToUpper(p)) {
				return strings.ToLower(vendor)
			}
		}
	}
	return ""
}

// VendorFromModel — запасной вариант: вендор из имени модели
// ("yealink_t23g" → "yealink").
func VendorFromModel(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "yealink"):
		return "yealink"
	case strings.Contains(m, "fanvil"):
		return "fanvil"
	}
	return ""
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
