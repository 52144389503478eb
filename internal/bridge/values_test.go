package bridge

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValuesFloat(t *testing.T) {
	cases := map[string]any{
		"":        0.0,
		"12.5":    12.5,
		" 3.2kg":  3.2,
		".5":      0.5,
		"-0":      0.0,
		"1e3":     1000.0,
		"1.":      1.0,
		"abc":     nil,
		"-":       nil,
		"1e999":   nil,
		"   ":     nil,
		"+7.25xx": 7.25,
	}
	for raw, want := range cases {
		got := Values{"n": raw}.Float("n")
		if want == nil {
			require.Nil(t, got, raw)
			continue
		}
		require.NotNil(t, got, raw)
		require.Equal(t, want, *got, raw)
	}
}

func TestValuesInt(t *testing.T) {
	cases := map[string]any{
		"":     int64(0),
		"42":   int64(42),
		"7.9":  int64(7),
		"-3 u": int64(-3),
		"0x1F": int64(31),
		"x":    nil,
	}
	for raw, want := range cases {
		got := Values{"n": raw}.Int("n")
		if want == nil {
			require.Nil(t, got, raw)
			continue
		}
		require.NotNil(t, got, raw)
		require.Equal(t, want, *got, raw)
	}
	require.Nil(t, Values{"n": "99999999999999999999"}.Int("n"))
}

func TestValuesCheckedAndText(t *testing.T) {
	v := ValuesFromForm(url.Values{
		"activo": {"on"},
		"nombre": {"  Agro  ", "ignored"},
		"otro":   {},
	})
	require.True(t, v.Checked("activo"))
	require.False(t, v.Checked("missing"))
	require.Equal(t, "Agro", v.Text("nombre"))
	require.Equal(t, "2024-01-01T10:30:00", Values{"f": "2024-01-01T10:30"}.DateTime("f"))
	require.Equal(t, "2024-01-01T10:30:15", Values{"f": "2024-01-01T10:30:15"}.DateTime("f"))
}
