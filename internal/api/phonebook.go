package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"dialplan/internal/models"
)

// GET /api/v1/phonebook
func (h *Handler) ListPhonebook(w http.ResponseWriter, _ *http.Request) {
	inv := h.store.Inventory()
	entries := inv.Phonebook
	if entries == nil {
		entries = []models.PhonebookEntry{}
	}
	models.WriteJSON(w, http.StatusOK, phonebookResponse{
		Title:   inv.PhonebookName,
		Entries: entries,
		Total:   len(entries),
	})
}

// GET /api/v1/phonebook/groups
func (h *Handler) ListPhonebookGroups(w http.ResponseWriter, _ *http.Request) {
	groups := h.store.Inventory().Groups
	if groups == nil {
		groups = []models.PhonebookGroup{}
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (models.PhonebookEntry, bool) {
	var req phonebookEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return models.PhonebookEntry{}, false
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Number) == "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "name and number are required", nil)
		return models.PhonebookEntry{}, false
	}
	return models.PhonebookEntry{Name: req.Name, Number: req.Number}, true
}

// POST /api/v1/phonebook
func (h *Handler) CreatePhonebookEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	created, err := h.store.AddPhonebookEntry(e)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, created)
}

// PUT /api/v1/phonebook/{id} — адресация по стабильному ключу.
func (h *Handler) UpdatePhonebookEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.store.UpdatePhonebookEntryByID(id, e); err != nil {
		writeStoreError(w, err)
		return
	}
	e.ID = id
	models.WriteJSON(w, http.StatusOK, e)
}

// DELETE /api/v1/phonebook/{id}
func (h *Handler) DeletePhonebookEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePhonebookEntryByID(mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/phonebook/index/{index} — позиционная адресация
// (совместимость; после удалений позиции смещаются).
func (h *Handler) UpdatePhonebookEntryByIndex(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	idx, _ := strconv.Atoi(mux.Vars(r)["index"])
	if err := h.store.UpdatePhonebookEntry(idx, e); err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, e)
}

// DELETE /api/v1/phonebook/index/{index}
func (h *Handler) DeletePhonebookEntryByIndex(w http.ResponseWriter, r *http.Request) {
	idx, _ := strconv.Atoi(mux.Vars(r)["index"])
	if err := h.store.DeletePhonebookEntry(idx); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
