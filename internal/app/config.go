package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inventario-agricola/inventario/internal/backend"
	"github.com/inventario-agricola/inventario/internal/inventory"
)

// Config holds runtime configuration for the console and the command line.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8090"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppRateLimit      int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	CSRFSecret string `envconfig:"CSRF_SECRET"`

	BackendBaseURL string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:8080/api/v1"`
	SeedsURL       string        `envconfig:"SEEDS_URL"`
	SuppliersURL   string        `envconfig:"SUPPLIERS_URL"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`

	ConsoleResources []string `envconfig:"CONSOLE_RESOURCES" default:"semillas,proveedores"`
	ConsoleToast     bool     `envconfig:"CONSOLE_TOAST" default:"true"`
	ConsoleLang      string   `envconfig:"CONSOLE_LANG" default:"es"`
}

// LoadConfig reads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg, err := ReadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig reads configuration from environment variables without
// validating it, so callers can apply overrides first.
func ReadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings shared by every front end.
func (c *Config) Validate() error {
	if c.BackendTimeout < 0 {
		return errors.New("backend timeout must not be negative")
	}
	for _, raw := range []string{c.BackendBaseURL, c.SeedsURL, c.SuppliersURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid backend url %q", raw)
		}
	}
	if _, err := c.Resources(); err != nil {
		return err
	}
	return nil
}

// devCSRFSecret signs CSRF tokens outside production when CSRF_SECRET is unset.
const devCSRFSecret = "inventario-dev-csrf"

// ValidateServer checks the settings only the web console needs.
func (c *Config) ValidateServer() error {
	if c.AppAddr == "" {
		return errors.New("listen address must be provided")
	}
	if c.CSRFSecret == "" {
		if c.IsProduction() {
			return errors.New("csrf secret must be provided")
		}
		c.CSRFSecret = devCSRFSecret
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Endpoints resolves the collection URLs. Per resource overrides win over the base URL.
func (c *Config) Endpoints() backend.Endpoints {
	endpoints := backend.EndpointsFromBase(c.BackendBaseURL)
	if c.SeedsURL != "" {
		endpoints.SeedsURL = c.SeedsURL
	}
	if c.SuppliersURL != "" {
		endpoints.SuppliersURL = c.SuppliersURL
	}
	return endpoints
}

// Resources parses CONSOLE_RESOURCES. English aliases are accepted.
func (c *Config) Resources() ([]inventory.Resource, error) {
	var out []inventory.Resource
	seen := make(map[inventory.Resource]bool)
	for _, raw := range c.ConsoleResources {
		var r inventory.Resource
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "":
			continue
		case "semillas", "seeds":
			r = inventory.ResourceSeeds
		case "proveedores", "suppliers":
			r = inventory.ResourceSuppliers
		default:
			return nil, fmt.Errorf("unknown console resource %q", raw)
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("at least one console resource must be enabled")
	}
	return out, nil
}
