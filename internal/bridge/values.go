package bridge

import (
	"errors"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/inventario-agricola/inventario/internal/inventory"
)

// Values carries the raw inputs of one form submission keyed by field name.
type Values map[string]string

// ValuesFromForm keeps the first value of every submitted field.
func ValuesFromForm(form url.Values) Values {
	v := make(Values, len(form))
	for key, list := range form {
		if len(list) > 0 {
			v[key] = list[0]
		}
	}
	return v
}

// Text returns the trimmed value.
func (v Values) Text(name string) string {
	return strings.TrimSpace(v[name])
}

// DateTime returns the value normalized by inventory.DateTimeValue.
func (v Values) DateTime(name string) string {
	return inventory.DateTimeValue(v[name])
}

// Checked interprets a checkbox. Browsers submit "on" for checked boxes and
// omit unchecked ones.
func (v Values) Checked(name string) bool {
	switch strings.ToLower(strings.TrimSpace(v[name])) {
	case "on", "true", "1", "yes", "si", "sí":
		return true
	}
	return false
}

// Float coerces like parseFloat(value || "0"): an empty field is zero, a
// field without a numeric prefix is nil (encoded as null).
func (v Values) Float(name string) *float64 {
	raw := v[name]
	if raw == "" {
		raw = "0"
	}
	return parseFloatPrefix(raw)
}

// Int coerces like parseInt(value || "0").
func (v Values) Int(name string) *int64 {
	raw := v[name]
	if raw == "" {
		raw = "0"
	}
	return parseIntPrefix(raw)
}

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	hexPrefix   = regexp.MustCompile(`^([+-]?)0[xX]([0-9a-fA-F]+)`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

func parseFloatPrefix(raw string) *float64 {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	m := floatPrefix.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	if f == 0 {
		f = 0 // drop negative zero
	}
	return &f
}

func parseIntPrefix(raw string) *int64 {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if m := hexPrefix.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1]+m[2], 16, 64)
		if err != nil {
			return nil
		}
		return &n
	}
	m := intPrefix.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
