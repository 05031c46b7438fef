package mac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	spellings := []string{
		"001565123456",
		"00:15:65:12:34:56",
		"00-15-65-12-34-56",
		"0015.6512.3456",
		"00:15:65:12:34:56",
		"  00:15:65:12:34:56  ",
		"00:15:65:12:34:56",
		"00-15-65-12-34-56",
		"001565123456",
		"00:15:65:12:34:56",
		"00:15:65:12:34:56",
	}
	for _, s := range spellings {
		got, err := Normalize(s)
		require.NoError(t, err, "spelling %q", s)
		assert.Equal(t, "001565123456", got)

		// идемпотентность
		again, err := Normalize(got)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	upper, err := Normalize("00:15:65:AA:BB:CC")
	require.NoError(t, err)
	assert.Equal(t, "001565aabbcc", upper)
}

func TestNormalizeInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"00156512345",    // 11 символов
		"0015651234567",  // 13 символов
		"00156512345g",   // не hex
		"00:15:65:12:34", // короткий
		"hello world",
	} {
		_, err := Normalize(s)
		assert.ErrorIs(t, err, ErrInvalidMAC, "spelling %q", s)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		sep   string
		upper bool
		want  string
	}{
		{"", false, "001565123456"},
		{"", true, "001565123456"}, // upper не влияет без букв
		{":", false, "00:15:65:12:34:56"},
		{"-", false, "00-15-65-12-34-56"},
		{".", false, "0015.6512.3456"},
	}
	for _, c := range cases {
		got, err := Format("001565123456", c.sep, c.upper)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	got, err := Format("001565aabbcc", ":", true)
	require.NoError(t, err)
	assert.Equal(t, "00:15:65:AA:BB:CC", got)
}

func TestFormatRoundTrip(t *testing.T) {
	orig := "00:15:65:AA:bb:CC"
	canon, err := Normalize(orig)
	require.NoError(t, err)

	for _, sep := range []string{"", ":", "-", "."} {
		for _, upper := range []bool{false, true} {
			formatted, err := Format(orig, sep, upper)
			require.NoError(t, err)
			back, err := Normalize(formatted)
			require.NoError(t, err)
			assert.Equal(t, canon, back, "sep=%q upper=%v", sep, upper)
		}
	}
}

func TestOUI(t *testing.T) {
	oui, err := OUI("00:15:65:12:34:56")
	require.NoError(t, err)
	assert.Equal(t, "001565", oui)

	_, err = OUI("nonsense")
	assert.ErrorIs(t, err, ErrInvalidMAC)
}

func TestDetectVendor(t *testing.T) {
	ouiMap := map[string][]string{
		"yealink": {"001565", "80:5E:0C"},
		"fanvil":  {"0c-38-3e"},
	}

	assert.Equal(t, "yealink", DetectVendor("00:15:65:12:34:56", ouiMap))
	assert.Equal(t, "yealink", DetectVendor("80-5E-0C-00-00-01", ouiMap))
	assert.Equal(t, "fanvil", DetectVendor("0C383E000001", ouiMap))
	assert.Equal(t, "", DetectVendor("AA:BB:CC:00:00:01", ouiMap))
	assert.Equal(t, "", DetectVendor("not-a-mac", ouiMap))
}

func TestVendorFromModel(t *testing.T) {
	assert.Equal(t, "yealink", VendorFromModel("yealink_t23g"))
	assert.Equal(t, "yealink", VendorFromModel("Yealink T54W"))
	assert.Equal(t, "fanvil", VendorFromModel("fanvil_v64"))
	assert.Equal(t, "", VendorFromModel("snom_d735"))
}
