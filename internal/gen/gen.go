// Package gen — рендеринг конфигов и справочников под конкретного
// производителя телефонов. Контракт один на всех: Config + Phonebook,
// диспетчеризация по имени вендора.
package gen

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"dialplan/internal/mac"
	"dialplan/internal/models"
)

//go:embed templates
var tplFS embed.FS

// ErrUnknownVendor — вендор не поддерживается.
var ErrUnknownVendor = errors.New("unknown vendor")

// Generator — контракт вендорного генератора. Переменные шаблона
// фиксированы: mac, model, extension, display_name, password, label,
// pbx_server, pbx_port, transport, ntp_server, timezone, codecs;
// для справочника — entries и title.
type Generator interface {
	Vendor() string
	Config(s models.EffectiveSettings) (string, error)
	Phonebook(entries []models.PhonebookEntry, title string) (string, error)
	ConfigContentType() string
	PhonebookContentType() string
}

// ForVendor — перечислимая диспетчеризация по имени вендора.
func ForVendor(vendor string) (Generator, error) {
	switch strings.ToLower(vendor) {
	case "yealink":
		return yealinkGen, nil
	case "fanvil":
		return fanvilGen, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, vendor)
}

// Vendors — список поддерживаемых вендоров.
func Vendors() []string { return []string{"fanvil", "yealink"} }

// tplSet — общая механика: пара разобранных шаблонов одного вендора.
type tplSet struct {
	vendor    string
	config    *template.Template
	phonebook *template.Template
}

// newSet разбирает шаблоны вендора из встроенной FS. Шаблоны —
// ресурс сборки, их отсутствие — ошибка программиста, поэтому Must.
func newSet(vendor string, extra template.FuncMap) tplSet {
	fm := baseFuncs()
	for k, v := range extra {
		fm[k] = v
	}
	cfg := template.Must(template.New("mac.cfg.tmpl").Funcs(fm).
		ParseFS(tplFS, "templates/"+vendor+"/mac.cfg.tmpl"))
	pb := template.Must(template.New("phonebook.xml.tmpl").Funcs(fm).
		ParseFS(tplFS, "templates/"+vendor+"/phonebook.xml.tmpl"))
	return tplSet{vendor: vendor, config: cfg, phonebook: pb}
}

func (t tplSet) Vendor() string               { return t.vendor }
func (t tplSet) ConfigContentType() string    { return "text/plain; charset=utf-8" }
func (t tplSet) PhonebookContentType() string { return "application/xml; charset=utf-8" }

func (t tplSet) Config(s models.EffectiveSettings) (string, error) {
	var b strings.Builder
	if err := t.config.Execute(&b, configVars(s)); err != nil {
		return "", fmt.Errorf("render %s config: %w", t.vendor, err)
	}
	return b.String(), nil
}

func (t tplSet) Phonebook(entries []models.PhonebookEntry, title string) (string, error) {
	var b strings.Builder
	if err := t.phonebook.Execute(&b, phonebookVars(entries, title)); err != nil {
		return "", fmt.Errorf("render %s phonebook: %w", t.vendor, err)
	}
	return b.String(), nil
}

// configVars раскладывает проекцию настроек в контрактные имена.
func configVars(s models.EffectiveSettings) map[string]any {
	return map[string]any{
		"mac":          s.MAC,
		"model":        s.Model,
		"extension":    s.Extension,
		"display_name": s.DisplayName,
		"password":     s.Password,
		"label":        s.Label,
		"pbx_server":   s.PBXServer,
		"pbx_port":     s.PBXPort,
		"transport":    s.Transport,
		"ntp_server":   s.NTPServer,
		"timezone":     s.Timezone,
		"codecs":       s.Codecs,
	}
}

func phonebookVars(entries []models.PhonebookEntry, title string) map[string]any {
	es := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		es = append(es, map[string]string{"name": e.Name, "number": e.Number})
	}
	return map[string]any{"entries": es, "title": title}
}

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"formatMAC": func(m, sep string, upper bool) string {
			out, err := mac.Format(m, sep, upper)
			if err != nil {
				return m
			}
			return out
		},
		"inc":  func(i int) int { return i + 1 },
		"join": strings.Join,
		"xml":  xmlEscape,
	}
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string { return xmlReplacer.Replace(s) }
