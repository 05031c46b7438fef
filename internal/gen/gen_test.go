package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialplan/internal/models"
)

func sampleSettings() models.EffectiveSettings {
	return models.EffectiveSettings{
		MAC:         "001565aabbcc",
		Model:       "yealink_t23g",
		Extension:   "101",
		DisplayName: "Front Desk",
		Password:    "s3cret",
		Label:       "Front Desk",
		PBXServer:   "pbx.example.com",
		PBXPort:     5060,
		Transport:   "TLS",
		NTPServer:   "pool.ntp.org",
		Timezone:    "America/New_York",
		Codecs:      []string{"PCMU", "G722"},
	}
}

func TestForVendor(t *testing.T) {
	for _, v := range []string{"yealink", "Yealink", "fanvil", "FANVIL"} {
		g, err := ForVendor(v)
		require.NoError(t, err, v)
		assert.NotEmpty(t, g.Vendor())
	}

	_, err := ForVendor("snom")
	assert.ErrorIs(t, err, ErrUnknownVendor)
}

func TestYealinkConfig(t *testing.T) {
	g, err := ForVendor("yealink")
	require.NoError(t, err)

	out, err := g.Config(sampleSettings())
	require.NoError(t, err)

	assert.Contains(t, out, "#!version:1.0.0.1")
	assert.Contains(t, out, "00:15:65:AA:BB:CC")
	assert.Contains(t, out, "account.1.auth_name = 101")
	assert.Contains(t, out, "account.1.password = s3cret")
	assert.Contains(t, out, "account.1.sip_server.1.address = pbx.example.com")
	assert.Contains(t, out, "account.1.sip_server.1.port = 5060")
	assert.Contains(t, out, "transport_type = 2") // TLS
	assert.Contains(t, out, "account.1.codec.1.payload_type = PCMU")
	assert.Contains(t, out, "account.1.codec.2.payload_type = G722")
	assert.Contains(t, out, "local_time.ntp_server1 = pool.ntp.org")
	assert.Contains(t, out, "local_time.time_zone_name = America/New_York")
}

func TestFanvilConfig(t *testing.T) {
	g, err := ForVendor("fanvil")
	require.NoError(t, err)

	out, err := g.Config(sampleSettings())
	require.NoError(t, err)

	assert.Contains(t, out, "<<VOIP CONFIG FILE>>")
	assert.Contains(t, out, "SIP1 Phone Number  :101")
	assert.Contains(t, out, "SIP1 Register Addr :pbx.example.com")
	assert.Contains(t, out, "SIP1 Register Pswd :s3cret")
	assert.Contains(t, out, "SIP1 Codec Map     :PCMU,G722")
	assert.Contains(t, out, "<<END OF FILE>>")
}

func TestPhonebookRendering(t *testing.T) {
	entries := []models.PhonebookEntry{
		{ID: "a", Name: "Alice", Number: "100"},
		{ID: "b", Name: "Bob & Co <sales>", Number: "101"},
	}

	y, err := ForVendor("yealink")
	require.NoError(t, err)
	out, err := y.Phonebook(entries, "Office")
	require.NoError(t, err)
	assert.Contains(t, out, "<YealinkIPPhoneBook>")
	assert.Contains(t, out, `<Title>Office</Title>`)
	assert.Contains(t, out, `<Unit Name="Alice" Phone1="100"/>`)
	// спецсимволы экранируются
	assert.Contains(t, out, "Bob &amp; Co &lt;sales&gt;")
	assert.NotContains(t, out, "<sales>")

	f, err := ForVendor("fanvil")
	require.NoError(t, err)
	out, err = f.Phonebook(entries, "Office")
	require.NoError(t, err)
	assert.Contains(t, out, "<PhoneBook>")
	assert.Contains(t, out, "<Name>Alice</Name>")
	assert.Contains(t, out, "<Telephone>100</Telephone>")
}

func TestPhonebookEmpty(t *testing.T) {
	g, err := ForVendor("yealink")
	require.NoError(t, err)
	out, err := g.Phonebook(nil, "Directory")
	require.NoError(t, err)
	assert.Contains(t, out, "<Title>Directory</Title>")
	assert.NotContains(t, out, "<Unit")
}

func TestContentTypes(t *testing.T) {
	g, err := ForVendor("yealink")
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", g.ConfigContentType())
	assert.Equal(t, "application/xml; charset=utf-8", g.PhonebookContentType())
}
