// Package api — REST-операции над инвентарём и provisioning-эндпоинты,
// с которых телефоны забирают конфиги и справочник.
package api

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"dialplan/internal/gen"
	"dialplan/internal/logs"
	"dialplan/internal/mac"
	"dialplan/internal/models"
	"dialplan/internal/repo"
)

// Handler держит хранилище и таблицу OUI. notify — необязательный
// пуш в Asterisk после успешной мутации (вызывается в фоне).
type Handler struct {
	store  *repo.Store
	ouiMap map[string][]string
	notify func()
}

func NewHandler(store *repo.Store, ouiMap map[string][]string, notify func()) *Handler {
	return &Handler{store: store, ouiMap: ouiMap, notify: notify}
}

// pushAsterisk — best-effort: исход не влияет на ответ клиенту.
func (h *Handler) pushAsterisk() {
	if h.notify != nil {
		go h.notify()
	}
}

// vendorFor: сначала OUI, затем подстрока в имени модели.
func (h *Handler) vendorFor(p models.Phone) string {
	if v := mac.DetectVendor(p.MAC, h.ouiMap); v != "" {
		return v
	}
	return mac.VendorFromModel(p.Model)
}

// writeStoreError переводит ошибки доменного слоя в HTTP-статусы.
func writeStoreError(w http.ResponseWriter, err error) {
	var pe *repo.PersistenceError
	switch {
	case errors.Is(err, mac.ErrInvalidMAC):
		models.WriteProblem(w, http.StatusBadRequest, "Invalid MAC", err.Error(), nil)
	case errors.Is(err, repo.ErrDuplicateMAC), errors.Is(err, repo.ErrDuplicateExtension):
		models.WriteProblem(w, http.StatusConflict, "Conflict", err.Error(), nil)
	case errors.Is(err, repo.ErrPhoneNotFound), errors.Is(err, repo.ErrEntryNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, gen.ErrUnknownVendor):
		models.WriteProblem(w, http.StatusBadRequest, "Unknown Vendor", err.Error(), nil)
	case errors.As(err, &pe):
		models.WriteProblem(w, http.StatusInternalServerError, "Persistence Failure", err.Error(), nil)
	default:
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
	}
}

// ===== лог provisioning-запросов =====

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func logProvision(r *http.Request, macStr, vendor, status, msg string) {
	if vendor == "" {
		vendor = "unknown"
	}
	entry := logs.Logger.WithFields(logrus.Fields{
		"mac":       macStr,
		"vendor":    vendor,
		"status":    status,
		"client_ip": clientIP(r),
	})
	if status == "success" {
		entry.Infof("provisioned %s (%s)", macStr, vendor)
	} else {
		entry.Warnf("provisioning failed for %s: %s", macStr, msg)
	}
}
