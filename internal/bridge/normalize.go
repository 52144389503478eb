package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type jsonMember struct {
	key   string
	value any
}

type (
	jsonObject []jsonMember
	jsonArray  []any
)

// normalizeJSON re-encodes a JSON document the way a browser prints a parsed
// reply: numbers in their shortest form, the last of duplicate keys, and
// array index keys ahead of the others.
func normalizeJSON(body []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeJSONValue(&buf, v)
	return buf.Bytes(), nil
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		var obj jsonObject
		index := make(map[string]int)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("bridge: object key %v", keyTok)
			}
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			if i, seen := index[key]; seen {
				obj[i].value = value
				continue
			}
			index[key] = len(obj)
			obj = append(obj, jsonMember{key: key, value: value})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := jsonArray{}
		for dec.More() {
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("bridge: unexpected delimiter %v", delim)
}

func writeJSONValue(buf *bytes.Buffer, v any) {
	switch v := v.(type) {
	case jsonObject:
		buf.WriteByte('{')
		for i, m := range v.ordered() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(encodeString(m.key))
			buf.WriteByte(':')
			writeJSONValue(buf, m.value)
		}
		buf.WriteByte('}')
	case jsonArray:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONValue(buf, item)
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(formatNumber(v))
	case string:
		buf.Write(encodeString(v))
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	default:
		buf.WriteString("null")
	}
}

// ordered puts array index keys first in ascending order.
func (o jsonObject) ordered() jsonObject {
	out := make(jsonObject, 0, len(o))
	var rest jsonObject
	for _, m := range o {
		if _, ok := arrayIndex(m.key); ok {
			out = append(out, m)
		} else {
			rest = append(rest, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := arrayIndex(out[i].key)
		b, _ := arrayIndex(out[j].key)
		return a < b
	})
	return append(out, rest...)
}

func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}

// formatNumber prints a number as a double, switching to exponent notation
// below 1e-6 and from 1e21 on. Out of range values print as null.
func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && math.IsInf(f, 0) {
		return "null"
	}
	abs := math.Abs(f)
	switch {
	case abs == 0:
		return "0"
	case abs >= 1e21 || abs < 1e-6:
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
