package app

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/inventario-agricola/inventario/internal/observability"
	"github.com/inventario-agricola/inventario/internal/platform/httpx"
	"github.com/inventario-agricola/inventario/internal/shared"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRateLimit      = 120
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
}

// MiddlewareStack returns the console middleware chain in mounting order.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	timeout, rate := defaultRequestTimeout, defaultRateLimit
	if cfg.Config != nil {
		if cfg.Config.AppRequestTimeout > 0 {
			timeout = cfg.Config.AppRequestTimeout
		}
		if cfg.Config.AppRateLimit > 0 {
			rate = cfg.Config.AppRateLimit
		}
	}

	chain := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		sessions(cfg.SessionManager, cfg.Logger),
		middleware.Recoverer,
		requestTimeout(timeout),
		secureHeaders(cfg.Config.IsProduction(), cfg.Logger),
		middleware.Compress(5),
		httprate.Limit(rate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
		csrfProtect(cfg.CSRFManager, cfg.Logger),
	}
	if cfg.Metrics != nil {
		chain = append(chain, cfg.Metrics.Middleware)
	}
	return chain
}

// sessions loads the visitor session into the request context and commits it
// right before the first byte of the response.
func sessions(manager *shared.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r.Context(), r)
			if err != nil {
				logger.Error("load session", slog.Any("error", err))
				httpx.Problem(w, http.StatusServiceUnavailable, "Session Unavailable", "")
				return
			}
			ctx := shared.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(&committingWriter{ResponseWriter: w, commit: func() {
				if err := manager.Commit(ctx, w, sess); err != nil {
					logger.Error("commit session", slog.Any("error", err))
				}
			}}, r.WithContext(ctx))
		})
	}
}

type committingWriter struct {
	http.ResponseWriter
	commit func()
	done   bool
}

func (w *committingWriter) WriteHeader(status int) {
	if !w.done {
		w.done = true
		w.commit()
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *committingWriter) Write(data []byte) (int, error) {
	if !w.done {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func (w *committingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// formSubmission matches the form API, which waits on the backend for as long
// as BACKEND_TIMEOUT allows.
func formSubmission(r *http.Request) bool {
	return r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/forms/")
}

// requestTimeout bounds every console request except form submissions.
func requestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	bounded := middleware.Timeout(timeout)
	return func(next http.Handler) http.Handler {
		limited := bounded(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if formSubmission(r) {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

func secureHeaders(production bool, logger *slog.Logger) func(http.Handler) http.Handler {
	headers := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := headers.Process(w, r); err != nil {
				logger.Warn("secure headers blocked request", slog.String("host", r.Host), slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// csrfProtect checks the session token on every unsafe method. Scripts send
// it in X-CSRF-Token, plain forms in the csrf_token field.
func csrfProtect(csrf *shared.CSRFManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			token := r.Header.Get(shared.CSRFHeader)
			if token == "" {
				token = r.PostFormValue(shared.CSRFFormField)
			}
			if err := csrf.VerifyToken(shared.SessionFromContext(r.Context()), token); err != nil {
				logger.Warn("csrf validation failed", slog.String("path", r.URL.Path), slog.Any("error", err))
				httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
