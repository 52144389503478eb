// Package backend talks to one REST collection of the inventory microservice.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inventario-agricola/inventario/internal/inventory"
)

// Observer receives one call per completed or failed backend request.
type Observer interface {
	ObserveBackendRequest(resource, method string, status int, elapsed time.Duration, err error)
}

// Response is the raw reply of the backend.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the reply declares a JSON content type.
func (r Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// OK reports a status in the 2xx range.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client wraps interactions with a single collection, e.g. {base}/semillas.
type Client struct {
	resource   inventory.Resource
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithObserver registers a request observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient constructs a client for the collection rooted at baseURL.
func NewClient(resource inventory.Resource, baseURL string, opts ...Option) *Client {
	c := &Client{
		resource:   resource,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resource returns the collection served by the client.
func (c *Client) Resource() inventory.Resource {
	return c.resource
}

// BaseURL returns the collection URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Create posts a new record.
func (c *Client) Create(ctx context.Context, record any) (Response, error) {
	return c.do(ctx, http.MethodPost, c.baseURL, record)
}

// Get fetches {base}/{id}.
func (c *Client) Get(ctx context.Context, id string) (Response, error) {
	return c.do(ctx, http.MethodGet, c.itemURL(id), nil)
}

// Update replaces {base}/{id} with record.
func (c *Client) Update(ctx context.Context, id string, record any) (Response, error) {
	return c.do(ctx, http.MethodPut, c.itemURL(id), record)
}

// Delete removes {base}/{id}.
func (c *Client) Delete(ctx context.Context, id string) (Response, error) {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
}

// List fetches the collection. The query string is omitted when q is empty.
func (c *Client) List(ctx context.Context, q inventory.Query) (Response, error) {
	target := c.baseURL
	if encoded := q.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return c.do(ctx, http.MethodGet, target, nil)
}

// Related fetches a sub resource of an item, e.g. {base}/{id}/top2.
func (c *Client) Related(ctx context.Context, id, rel string) (Response, error) {
	return c.do(ctx, http.MethodGet, c.itemURL(id)+"/"+rel, nil)
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, target string, record any) (resp Response, err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveBackendRequest(string(c.resource), method, resp.Status, time.Since(start), err)
		}
	}()

	var body io.Reader
	if record != nil {
		payload, err := json.Marshal(record)
		if err != nil {
			return Response{}, &RequestError{Op: method, URL: target, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Response{}, &RequestError{Op: method, URL: target, Err: err}
	}
	if record != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &RequestError{Op: method, URL: target, Err: err}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{Status: res.StatusCode}, &RequestError{Op: method, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	return Response{
		Status:      res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
