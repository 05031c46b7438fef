package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialplan/internal/repo"
)

var testOUI = map[string][]string{
	"yealink": {"001565", "805E0C"},
	"fanvil":  {"0C383E", "7C2F80"},
}

func newTestRouter(t *testing.T) (*repo.Store, *mux.Router) {
	t.Helper()
	dir := t.TempDir()
	store, err := repo.NewStore(dir, filepath.Join(dir, "secrets.yml"), 5)
	require.NoError(t, err)

	r := mux.NewRouter()
	RegisterRoutes(r, NewHandler(store, testOUI, nil))
	return store, r
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createPhone(t *testing.T, r *mux.Router, mac, model, ext, name, pw string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/phones", map[string]any{
		"mac": mac, "model": model, "extension": ext,
		"display_name": name, "password": pw,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreatePhoneAndGet(t *testing.T) {
	_, r := newTestRouter(t)
	createPhone(t, r, "00:15:65:AA:BB:CC", "T31P", "201", "Alice", "s3cret")

	w := doJSON(t, r, http.MethodGet, "/api/v1/phones/001565aabbcc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "001565aabbcc", resp["mac"])
	assert.Equal(t, "yealink", resp["vendor"])

	eff, ok := resp["effective_settings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "201", eff["extension"])
	assert.Equal(t, "pbx.example.com", eff["pbx_server"])
	assert.Equal(t, "s3cret", eff["password"])
}

func TestCreatePhoneConflicts(t *testing.T) {
	_, r := newTestRouter(t)
	createPhone(t, r, "001565AABBCC", "T31P", "201", "Alice", "pw")

	// тот же MAC в другом написании
	w := doJSON(t, r, http.MethodPost, "/api/v1/phones", map[string]any{
		"mac": "00-15-65-aa-bb-cc", "model": "T31P", "extension": "202",
		"display_name": "Bob", "password": "pw",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// тот же добавочный
	w = doJSON(t, r, http.MethodPost, "/api/v1/phones", map[string]any{
		"mac": "0C383E112233", "model": "X3U", "extension": "201",
		"display_name": "Bob", "password": "pw",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestCreatePhoneValidation(t *testing.T) {
	_, r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/phones", map[string]any{
		"mac": "001565AABBCC", "model": "T31P",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/phones", map[string]any{
		"mac": "not-a-mac", "model": "T31P", "extension": "201",
		"display_name": "Alice", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePhonePartial(t *testing.T) {
	_, r := newTestRouter(t)
	createPhone(t, r, "001565AABBCC", "T31P", "201", "Alice", "pw")

	w := doJSON(t, r, http.MethodPut, "/api/v1/phones/001565aabbcc", map[string]any{
		"display_name": "Alice B",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice B", resp["display_name"])
	assert.Equal(t, "201", resp["extension"]) // не тронут
}

func TestDeletePhone(t *testing.T) {
	_, r := newTestRouter(t)
	createPhone(t, r, "001565AABBCC", "T31P", "201", "Alice", "pw")

	w := doJSON(t, r, http.MethodDelete, "/api/v1/phones/00:15:65:AA:BB:CC", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/phones/001565aabbcc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProvisionAutoByOUI(t *testing.T) {
	_, r := newTestRouter(t)
	createPhone(t, r, "001565AABBCC", "T31P", "201", "Alice", "pw")
	createPhone(t, r, "0C383E112233", "X3U", "202", "Bob", "pw")

	w := doJSON(t, r, http.MethodGet, "/001565aabbcc.cfg", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, "#!version:1.0.0.1")
	assert.Contains(t, body, "account.1.user_name = 201")

	w = doJSON(t, r, http.MethodGet, "/0c383e112233.cfg", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<<VOIP CONFIG FILE>>")
}

func TestProvisionAutoErrors(t *testing.T) {
	_, r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/zz1565aabbcc.cfg", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/001565ffffff.cfg", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// OUI не в таблице, модель не даёт вендора
	createPhone(t, r, "AABBCC112233", "Mystery9000", "300", "Eve", "pw")
	w = doJSON(t, r, http.MethodGet, "/aabbcc112233.cfg", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProvisionVendorForced(t *testing.T) {
	_, r := newTestRouter(t)
	// OUI неизвестен, но вендорный маршрут работает без автоопределения
	createPhone(t, r, "AABBCC112233", "Mystery9000", "300", "Eve", "pw")

	w := doJSON(t, r, http.MethodGet, "/yealink/aabbcc112233.cfg", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "account.1.user_name = 300")
}

func TestPhonebookCRUDByID(t *testing.T) {
	_, r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/phonebook", map[string]any{
		"name": "Alice", "number": "201",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	w = doJSON(t, r, http.MethodPut, "/api/v1/phonebook/"+id, map[string]any{
		"name": "Alice B", "number": "2010",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/phonebook", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.EqualValues(t, 1, list["total"])
	assert.Equal(t, "Directory", list["title"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/phonebook/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/phonebook/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPhonebookIndexCompat(t *testing.T) {
	_, r := newTestRouter(t)
	for _, n := range []string{"Alice", "Bob"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/phonebook", map[string]any{
			"name": n, "number": "100",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodDelete, "/api/v1/phonebook/index/0", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/phonebook/index/5", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPhonebookXML(t *testing.T) {
	_, r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/phonebook", map[string]any{
		"name": "Bob & Co", "number": "202",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/phonebook.xml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "Bob &amp; Co")

	w = doJSON(t, r, http.MethodGet, "/fanvil/phonebook.xml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<PhoneBook>")
}

func TestSettingsUpdateAndValidation(t *testing.T) {
	_, r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/v1/settings", map[string]any{
		"pbx_server": "pbx.local", "pbx_port": 5061, "transport": "TLS",
		"ntp_server": "ntp.local", "timezone": "UTC",
		"codecs": []string{"PCMU"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/settings", nil)
	var g map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, "pbx.local", g["pbx_server"])
	assert.Equal(t, "TLS", g["transport"])

	w = doJSON(t, r, http.MethodPut, "/api/v1/settings", map[string]any{
		"pbx_server": "pbx.local", "pbx_port": 5060, "transport": "SCTP",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/settings", map[string]any{
		"pbx_server": "", "pbx_port": 5060, "transport": "UDP",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsAndReload(t *testing.T) {
	_, r := newTestRouter(t)
	createPhone(t, r, "001565AABBCC", "T31P", "201", "Alice", "pw")

	w := doJSON(t, r, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats["phones_configured"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rel map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rel))
	assert.Equal(t, "reloaded", rel["status"])
	assert.EqualValues(t, 1, rel["phones"])
}

func TestPasswordNotExposed(t *testing.T) {
	_, r := newTestRouter(t)
	createPhone(t, r, "001565AABBCC", "T31P", "201", "Alice", "s3cret")

	w := doJSON(t, r, http.MethodGet, "/api/v1/phones", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	phones, _ := resp["phones"].([]any)
	require.Len(t, phones, 1)
	p, _ := phones[0].(map[string]any)
	_, top := p["password"]
	assert.False(t, top, "password must not appear at the top level")
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
}
