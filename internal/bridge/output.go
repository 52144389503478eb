package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/inventario-agricola/inventario/internal/backend"
)

// NoBodyPlaceholder stands in for an empty non-JSON reply.
const NoBodyPlaceholder = "(sin cuerpo)"

// ToastKind classifies a transient notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient, auto-dismissing status notification.
type Toast struct {
	Kind       ToastKind `json:"kind"`
	Message    string    `json:"message"`
	DurationMS int64     `json:"durationMs"`
}

// ValidationError reports a missing required field. It is raised before any
// request is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Output is the result of one form operation. Exactly one of the two shapes
// applies: {status, data} when the backend replied, {error} otherwise.
type Output struct {
	Form   FormID
	Status int
	Data   json.RawMessage
	Err    error
	Toast  *Toast
	Token  uint64
	Stale  bool
}

type responsePayload struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type rawBody struct {
	Raw string `json:"raw"`
}

// Failed reports the error shape.
func (o Output) Failed() bool {
	return o.Err != nil
}

// Message returns the text rendered under the error key.
func (o Output) Message() string {
	return errorMessage(o.Err)
}

// Payload returns the value that is rendered.
func (o Output) Payload() any {
	if o.Err != nil {
		return errorPayload{Error: o.Message()}
	}
	data := o.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return responsePayload{Status: o.Status, Data: data}
}

// MarshalJSON encodes the payload compactly.
func (o Output) MarshalJSON() ([]byte, error) {
	return encode(o.Payload(), "")
}

// Render pretty prints the payload with two-space indentation.
func (o Output) Render() string {
	data, err := encode(o.Payload(), "  ")
	if err != nil {
		fallback, _ := encode(errorPayload{Error: err.Error()}, "  ")
		return string(fallback)
	}
	return string(data)
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var requestErr *backend.RequestError
	if errors.As(err, &requestErr) {
		return requestErr.Message()
	}
	return err.Error()
}

// decodeBody normalises a JSON body and wraps anything else as {raw: text}.
func decodeBody(body []byte) json.RawMessage {
	if len(bytes.TrimSpace(body)) > 0 && json.Valid(body) {
		if data, err := normalizeJSON(body); err == nil {
			return data
		}
		return json.RawMessage(body)
	}
	data, _ := encode(rawBody{Raw: string(body)}, "")
	return data
}

func encodeString(s string) json.RawMessage {
	data, _ := encode(s, "")
	return data
}

// encode marshals without HTML escaping, the way JSON.stringify does.
func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
}
