package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"dialplan/internal/mac"
	"dialplan/internal/models"
	"dialplan/internal/repo"
)

func (h *Handler) phoneResponse(inv *models.Inventory, p models.Phone) phoneResponse {
	return phoneResponse{
		MAC:         p.MAC,
		Model:       p.Model,
		Extension:   p.Extension,
		DisplayName: p.DisplayName,
		PBXServer:   p.PBXServer,
		PBXPort:     p.PBXPort,
		Transport:   p.Transport,
		Label:       p.Label,
		Codecs:      p.Codecs,
		Vendor:      h.vendorFor(p),
		Effective:   inv.Effective(p),
	}
}

// GET /api/v1/phones
func (h *Handler) ListPhones(w http.ResponseWriter, _ *http.Request) {
	inv := h.store.Inventory()
	out := phoneListResponse{Phones: make([]phoneResponse, 0, len(inv.Phones))}
	for _, p := range inv.Phones {
		out.Phones = append(out.Phones, h.phoneResponse(inv, p))
	}
	out.Total = len(out.Phones)
	models.WriteJSON(w, http.StatusOK, out)
}

// POST /api/v1/phones
func (h *Handler) CreatePhone(w http.ResponseWriter, r *http.Request) {
	var req createPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if strings.TrimSpace(req.MAC) == "" || strings.TrimSpace(req.Extension) == "" ||
		strings.TrimSpace(req.Model) == "" || strings.TrimSpace(req.DisplayName) == "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request",
			"mac, model, extension and display_name are required", nil)
		return
	}

	phone := models.Phone{
		MAC:         req.MAC,
		Model:       req.Model,
		Extension:   req.Extension,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		PBXServer:   req.PBXServer,
		PBXPort:     req.PBXPort,
		Transport:   req.Transport,
		Label:       req.Label,
		Codecs:      req.Codecs,
	}
	if err := h.store.AddPhone(phone); err != nil {
		writeStoreError(w, err)
		return
	}
	h.pushAsterisk()

	canon, _ := mac.Normalize(req.MAC)
	inv := h.store.Inventory()
	created := inv.PhoneByMAC(canon)
	if created == nil {
		// не должно случаться: запись только что зафиксирована
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error",
			"created phone missing from snapshot", nil)
		return
	}
	models.WriteJSON(w, http.StatusCreated, h.phoneResponse(inv, *created))
}

// GET /api/v1/phones/{mac}
func (h *Handler) GetPhone(w http.ResponseWriter, r *http.Request) {
	canon, err := mac.Normalize(mux.Vars(r)["mac"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	inv := h.store.Inventory()
	p := inv.PhoneByMAC(canon)
	if p == nil {
		writeStoreError(w, repo.ErrPhoneNotFound)
		return
	}
	models.WriteJSON(w, http.StatusOK, h.phoneResponse(inv, *p))
}

// PUT /api/v1/phones/{mac}
func (h *Handler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	var req updatePhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}

	raw := mux.Vars(r)["mac"]
	upd := repo.PhoneUpdate{
		Model:       req.Model,
		Extension:   req.Extension,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		PBXServer:   req.PBXServer,
		PBXPort:     req.PBXPort,
		Transport:   req.Transport,
		Label:       req.Label,
		Codecs:      req.Codecs,
	}
	if err := h.store.UpdatePhone(raw, upd); err != nil {
		writeStoreError(w, err)
		return
	}
	h.pushAsterisk()

	canon, _ := mac.Normalize(raw)
	inv := h.store.Inventory()
	p := inv.PhoneByMAC(canon)
	if p == nil {
		writeStoreError(w, repo.ErrPhoneNotFound)
		return
	}
	models.WriteJSON(w, http.StatusOK, h.phoneResponse(inv, *p))
}

// DELETE /api/v1/phones/{mac}
func (h *Handler) DeletePhone(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePhone(mux.Vars(r)["mac"]); err != nil {
		writeStoreError(w, err)
		return
	}
	h.pushAsterisk()
	w.WriteHeader(http.StatusNoContent)
}
