package api

import (
	"encoding/json"
	"net/http"

	"dialplan/internal/models"
)

var validTransports = map[string]bool{"UDP": true, "TCP": true, "TLS": true}

// GET /api/v1/settings
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	models.WriteJSON(w, http.StatusOK, h.store.Inventory().Global)
}

// PUT /api/v1/settings — безусловная перезапись глобального блока.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var g models.GlobalSettings
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if g.PBXServer == "" || g.PBXPort <= 0 || g.PBXPort > 65535 {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request",
			"pbx_server and a valid pbx_port are required", nil)
		return
	}
	if !validTransports[g.Transport] {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request",
			"transport must be one of UDP, TCP, TLS", nil)
		return
	}

	if err := h.store.UpdateGlobalSettings(g); err != nil {
		writeStoreError(w, err)
		return
	}
	h.pushAsterisk()
	models.WriteJSON(w, http.StatusOK, h.store.Inventory().Global)
}
