package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"dialplan/internal/gen"
	"dialplan/internal/mac"
	"dialplan/internal/models"
	"dialplan/internal/repo"
)

// ProvisionAuto — GET /{mac}.cfg. Вендор определяется по OUI,
// при неизвестном префиксе — по имени модели из инвентаря.
func (h *Handler) ProvisionAuto(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["mac"]
	canon, err := mac.Normalize(raw)
	if err != nil {
		logProvision(r, raw, "", "error", err.Error())
		writeStoreError(w, err)
		return
	}

	inv := h.store.Inventory()
	p := inv.PhoneByMAC(canon)
	if p == nil {
		logProvision(r, canon, "", "error", "phone not found")
		writeStoreError(w, repo.ErrPhoneNotFound)
		return
	}

	vendor := h.vendorFor(*p)
	g, err := gen.ForVendor(vendor)
	if err != nil {
		logProvision(r, canon, vendor, "error", err.Error())
		writeStoreError(w, err)
		return
	}
	h.renderConfig(w, r, g, inv, *p)
}

// ProvisionVendor — GET /{vendor}/{mac}.cfg: вендор задан маршрутом,
// автоопределение не выполняется.
func (h *Handler) ProvisionVendor(vendor string) http.HandlerFunc {
	g, err := gen.ForVendor(vendor)
	if err != nil {
		panic(err) // маршруты регистрируются только для известных вендоров
	}
	return func(w http.ResponseWriter, r *http.Request) {
		raw := mux.Vars(r)["mac"]
		canon, nerr := mac.Normalize(raw)
		if nerr != nil {
			logProvision(r, raw, vendor, "error", nerr.Error())
			writeStoreError(w, nerr)
			return
		}
		inv := h.store.Inventory()
		p := inv.PhoneByMAC(canon)
		if p == nil {
			logProvision(r, canon, vendor, "error", "phone not found")
			writeStoreError(w, repo.ErrPhoneNotFound)
			return
		}
		h.renderConfig(w, r, g, inv, *p)
	}
}

func (h *Handler) renderConfig(w http.ResponseWriter, r *http.Request, g gen.Generator, inv *models.Inventory, p models.Phone) {
	body, err := g.Config(inv.Effective(p))
	if err != nil {
		logProvision(r, p.MAC, g.Vendor(), "error", err.Error())
		models.WriteProblem(w, http.StatusInternalServerError, "Render Failure", err.Error(), nil)
		return
	}
	logProvision(r, p.MAC, g.Vendor(), "success", "")
	w.Header().Set("Content-Type", g.ConfigContentType())
	_, _ = w.Write([]byte(body))
}

// PhonebookFile — GET /phonebook.xml и GET /{vendor}/phonebook.xml.
func (h *Handler) PhonebookFile(vendor string) http.HandlerFunc {
	g, err := gen.ForVendor(vendor)
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		inv := h.store.Inventory()
		body, rerr := g.Phonebook(inv.Phonebook, inv.PhonebookName)
		if rerr != nil {
			models.WriteProblem(w, http.StatusInternalServerError, "Render Failure", rerr.Error(), nil)
			return
		}
		w.Header().Set("Content-Type", g.PhonebookContentType())
		_, _ = w.Write([]byte(body))
	}
}

// Reload — GET /api/v1/reload: перечитать YAML с диска.
func (h *Handler) Reload(w http.ResponseWriter, _ *http.Request) {
	inv, err := h.store.Reload()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, reloadResponse{
		Status:           "reloaded",
		Phones:           len(inv.Phones),
		PhonebookEntries: len(inv.Phonebook),
	})
}

// Stats — GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	inv := h.store.Inventory()
	models.WriteJSON(w, http.StatusOK, statsResponse{
		PhonesConfigured: len(inv.Phones),
		PhonebookEntries: len(inv.Phonebook),
		Vendors:          gen.Vendors(),
	})
}
