package api

import "dialplan/internal/models"

type createPhoneRequest struct {
	MAC         string   `json:"mac"`
	Model       string   `json:"model"`
	Extension   string   `json:"extension"`
	DisplayName string   `json:"display_name"`
	Password    string   `json:"password"`
	PBXServer   string   `json:"pbx_server,omitempty"`
	PBXPort     int      `json:"pbx_port,omitempty"`
	Transport   string   `json:"transport,omitempty"`
	Label       string   `json:"label,omitempty"`
	Codecs      []string `json:"codecs,omitempty"`
}

type updatePhoneRequest struct {
	Model       *string  `json:"model"`
	Extension   *string  `json:"extension"`
	DisplayName *string  `json:"display_name"`
	Password    *string  `json:"password"`
	PBXServer   *string  `json:"pbx_server"`
	PBXPort     *int     `json:"pbx_port"`
	Transport   *string  `json:"transport"`
	Label       *string  `json:"label"`
	Codecs      []string `json:"codecs"`
}

// phoneResponse: сама запись (без пароля на верхнем уровне), вендор и
// полная проекция действующих настроек.
type phoneResponse struct {
	MAC         string   `json:"mac"`
	Model       string   `json:"model"`
	Extension   string   `json:"extension"`
	DisplayName string   `json:"display_name"`
	PBXServer   string   `json:"pbx_server,omitempty"`
	PBXPort     int      `json:"pbx_port,omitempty"`
	Transport   string   `json:"transport,omitempty"`
	Label       string   `json:"label,omitempty"`
	Codecs      []string `json:"codecs,omitempty"`

	Vendor    string                   `json:"vendor,omitempty"`
	Effective models.EffectiveSettings `json:"effective_settings"`
}

type phoneListResponse struct {
	Phones []phoneResponse `json:"phones"`
	Total  int             `json:"total"`
}

type phonebookEntryRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type phonebookResponse struct {
	Title   string                  `json:"title"`
	Entries []models.PhonebookEntry `json:"entries"`
	Total   int                     `json:"total"`
}

type reloadResponse struct {
	Status           string `json:"status"`
	Phones           int    `json:"phones"`
	PhonebookEntries int    `json:"phonebook_entries"`
}

type statsResponse struct {
	PhonesConfigured int      `json:"phones_configured"`
	PhonebookEntries int      `json:"phonebook_entries"`
	Vendors          []string `json:"vendors"`
}
