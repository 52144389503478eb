package inventory

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// minutePrecisionLen is the length of a datetime-local value without seconds (YYYY-MM-DDTHH:MM).
const minutePrecisionLen = 16

// DateTimeValue normalizes a datetime-local input into a seconds-qualified timestamp.
// Empty input stays empty and any other length passes through untouched.
func DateTimeValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if utf8.RuneCountInString(v) == minutePrecisionLen {
		return v + ":00"
	}
	return v
}

// Param is a single query string pair.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters. Unlike url.Values the
// insertion order is kept when encoding.
type Query []Param

// Add appends a pair.
func (q *Query) Add(key, value string) {
	*q = append(*q, Param{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (q Query) Get(key string) string {
	for _, p := range q {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Encode renders the pairs in form-urlencoded syntax.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// SeedFilter holds the optional seed list filters.
type SeedFilter struct {
	Type           string
	MinGermination string
	From           string
	To             string
}

// Query adds every non-empty filter. Dates are normalized first.
func (f SeedFilter) Query() Query {
	var q Query
	if v := strings.TrimSpace(f.Type); v != "" {
		q.Add("tipo", v)
	}
	if v := strings.TrimSpace(f.MinGermination); v != "" {
		q.Add("germinacionMin", v)
	}
	if v := DateTimeValue(f.From); v != "" {
		q.Add("desde", v)
	}
	if v := DateTimeValue(f.To); v != "" {
		q.Add("hasta", v)
	}
	return q
}

// SupplierFilter holds the supplier list filters.
type SupplierFilter struct {
	Name       string
	City       string
	ActiveOnly bool
}

// Query applies the backend precedence: a name filter suppresses both the
// city and the active flag.
func (f SupplierFilter) Query() Query {
	var q Query
	name := strings.TrimSpace(f.Name)
	if name != "" {
		q.Add("nombre", name)
		return q
	}
	if city := strings.TrimSpace(f.City); city != "" {
		q.Add("ciudad", city)
	}
	if f.ActiveOnly {
		q.Add("activo", "true")
	}
	return q
}
