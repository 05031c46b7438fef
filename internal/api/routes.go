package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает REST и provisioning-маршруты на корневой роутер.
// Catch-all /{mac}.cfg регистрируется последним, чтобы не перехватывать
// специализированные пути.
func RegisterRoutes(r *mux.Router, h *Handler) {
	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/phones", h.ListPhones).Methods(http.MethodGet)
	v1.HandleFunc("/phones", h.CreatePhone).Methods(http.MethodPost)
	v1.HandleFunc("/phones/{mac}", h.GetPhone).Methods(http.MethodGet)
	v1.HandleFunc("/phones/{mac}", h.UpdatePhone).Methods(http.MethodPut)
	v1.HandleFunc("/phones/{mac}", h.DeletePhone).Methods(http.MethodDelete)

	v1.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	v1.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)

	v1.HandleFunc("/phonebook", h.ListPhonebook).Methods(http.MethodGet)
	v1.HandleFunc("/phonebook", h.CreatePhonebookEntry).Methods(http.MethodPost)
	v1.HandleFunc("/phonebook/groups", h.ListPhonebookGroups).Methods(http.MethodGet)
	v1.HandleFunc("/phonebook/index/{index:[0-9]+}", h.UpdatePhonebookEntryByIndex).Methods(http.MethodPut)
	v1.HandleFunc("/phonebook/index/{index:[0-9]+}", h.DeletePhonebookEntryByIndex).Methods(http.MethodDelete)
	v1.HandleFunc("/phonebook/{id}", h.UpdatePhonebookEntry).Methods(http.MethodPut)
	v1.HandleFunc("/phonebook/{id}", h.DeletePhonebookEntry).Methods(http.MethodDelete)

	v1.HandleFunc("/reload", h.Reload).Methods(http.MethodGet)
	v1.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)

	// provisioning: телефоны ходят сюда без префикса API
	r.HandleFunc("/phonebook.xml", h.PhonebookFile("yealink")).Methods(http.MethodGet)
	r.HandleFunc("/yealink/phonebook.xml", h.PhonebookFile("yealink")).Methods(http.MethodGet)
	r.HandleFunc("/fanvil/phonebook.xml", h.PhonebookFile("fanvil")).Methods(http.MethodGet)
	r.HandleFunc("/yealink/{mac}.cfg", h.ProvisionVendor("yealink")).Methods(http.MethodGet)
	r.HandleFunc("/fanvil/{mac}.cfg", h.ProvisionVendor("fanvil")).Methods(http.MethodGet)
	r.HandleFunc("/{mac}.cfg", h.ProvisionAuto).Methods(http.MethodGet)
}
