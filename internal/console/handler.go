// Package console serves the single page form UI and binds its submissions to the bridge.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inventario-agricola/inventario/internal/backend"
	"github.com/inventario-agricola/inventario/internal/bridge"
	"github.com/inventario-agricola/inventario/internal/inventory"
	"github.com/inventario-agricola/inventario/internal/platform/httpx"
	"github.com/inventario-agricola/inventario/internal/shared"
	"github.com/inventario-agricola/inventario/internal/view"
)

const maxFormBytes = 64 << 10

type formRunner interface {
	Submit(ctx context.Context, scope string, id bridge.FormID, v bridge.Values) (bridge.Output, error)
	Forms() []bridge.Form
	Resources() []inventory.Resource
	Translator() bridge.Translator
}

// Settings carries the page level options.
type Settings struct {
	Lang      string
	Toasts    bool
	Endpoints backend.Endpoints
}

// Handler wires the console page and the form API.
type Handler struct {
	logger    *slog.Logger
	forms     formRunner
	templates *view.Engine
	csrf      *shared.CSRFManager
	settings  Settings
}

type submitResponse struct {
	Output   bridge.Output `json:"output"`
	Rendered string        `json:"rendered"`
	Toast    *bridge.Toast `json:"toast,omitempty"`
	Stale    bool          `json:"stale"`
	Token    uint64        `json:"token"`
}

type groupView struct {
	ID       string
	Title    string
	Endpoint string
	Forms    []bridge.Form
}

type pageData struct {
	HomeLabel  string
	AboutTitle string
	AboutText  string
	Toasts     bool
	Groups     []groupView
}

// NewHandler builds the console handler.
func NewHandler(logger *slog.Logger, forms formRunner, templates *view.Engine, csrf *shared.CSRFManager, settings Settings) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Lang == "" {
		settings.Lang = "es"
	}
	return &Handler{logger: logger, forms: forms, templates: templates, csrf: csrf, settings: settings}
}

// MountRoutes registers the page and the form API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.page)
	r.Get("/api/forms", h.listForms)
	r.Post("/api/forms/{form}", h.submitForm)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrf.EnsureToken(shared.SessionFromContext(r.Context()))
	if err != nil {
		h.logger.Error("issue csrf token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	tr := h.forms.Translator()
	data := view.TemplateData{
		Title:     tr.T(bridge.TextAppTitle),
		Lang:      h.settings.Lang,
		CSRFToken: token,
		Data: pageData{
			HomeLabel:  tr.T(bridge.TextHome),
			AboutTitle: tr.T(bridge.TextAbout),
			AboutText:  tr.T(bridge.TextAboutLede),
			Toasts:     h.settings.Toasts,
			Groups:     h.groups(),
		},
	}
	if err := h.templates.Render(w, "pages/console.html", data); err != nil {
		h.logger.Error("render console", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) groups() []groupView {
	tr := h.forms.Translator()
	forms := h.forms.Forms()
	var groups []groupView
	for _, resource := range h.forms.Resources() {
		group := groupView{
			ID:       string(resource),
			Title:    tr.T(bridge.GroupTitle(resource)),
			Endpoint: h.endpoint(resource),
		}
		for _, form := range forms {
			if form.Resource == resource {
				group.Forms = append(group.Forms, form)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func (h *Handler) endpoint(r inventory.Resource) string {
	switch r {
	case inventory.ResourceSeeds:
		return h.settings.Endpoints.SeedsURL
	case inventory.ResourceSuppliers:
		return h.settings.Endpoints.SuppliersURL
	}
	return ""
}

func (h *Handler) listForms(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"resources": h.forms.Resources(),
		"forms":     h.forms.Forms(),
		"toasts":    h.settings.Toasts,
	})
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	id := bridge.FormID(chi.URLParam(r, "form"))
	values, err := readValues(w, r)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrBadRequest, err))
		return
	}

	// The server write deadline does not apply; the backend call is bounded
	// by BACKEND_TIMEOUT alone.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	ctx := context.WithoutCancel(r.Context())
	out, err := h.forms.Submit(ctx, shared.SessionScope(ctx), id, values)
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrUnknownForm):
			httpx.RespondError(w, fmt.Errorf("%w: form %s", httpx.ErrNotFound, id))
		default:
			h.logger.Error("submit form", slog.String("form", string(id)), slog.Any("error", err))
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUnavailable, err))
		}
		return
	}

	httpx.JSON(w, http.StatusOK, submitResponse{
		Output:   out,
		Rendered: out.Render(),
		Toast:    out.Toast,
		Stale:    out.Stale,
		Token:    out.Token,
	})
}

// readValues accepts url-encoded, multipart and JSON object bodies.
func readValues(w http.ResponseWriter, r *http.Request) (bridge.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var raw map[string]any
		if err := httpx.DecodeJSON(r, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return valuesFromJSON(raw), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
	}
	values := bridge.ValuesFromForm(r.PostForm)
	delete(values, shared.CSRFFormField)
	return values, nil
}

func valuesFromJSON(raw map[string]any) bridge.Values {
	values := make(bridge.Values, len(raw))
	for key, v := range raw {
		switch v := v.(type) {
		case string:
			values[key] = v
		case bool:
			if v {
				values[key] = "true"
			}
		case json.Number:
			values[key] = v.String()
		case nil:
		default:
			values[key] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return values
}
