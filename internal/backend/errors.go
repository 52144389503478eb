package backend

import (
	"errors"
	"fmt"
	"net/url"
)

// RequestError reports a request that never produced a usable reply:
// transport failures, unreadable bodies and malformed URLs.
type RequestError struct {
	Op  string
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("backend: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Message returns the underlying failure text without the method and URL
// decoration added by net/http.
func (e *RequestError) Message() string {
	if e.Err == nil {
		return "request failed"
	}
	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return e.Err.Error()
}
