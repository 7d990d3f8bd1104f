package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dmitrijs2005/flashcards/internal/client/navigation"
	"github.com/dmitrijs2005/flashcards/internal/client/transport"
	"github.com/dmitrijs2005/flashcards/internal/timex"
)

// Config holds runtime settings for the flashcards shell.
//
// Fields:
//   - APIBaseURL: base URL of the backend API, e.g. "http://localhost:8000/api".
//   - RequestTimeout: upper bound for a single HTTP request.
//   - SessionDBPath: SQLite file that keeps the session between runs.
//   - LogLevel: debug, info, warn or error.
//   - LoginRoute: where a forced logout sends the user.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionDBPath  string
	LogLevel       string
	LoginRoute     string
}

// DefaultSessionDBPath is where the session is kept unless configured.
const DefaultSessionDBPath = "~/.flashcards/session.db"

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = transport.DefaultBaseURL
	c.RequestTimeout = transport.DefaultTimeout
	c.SessionDBPath = DefaultSessionDBPath
	c.LogLevel = "info"
	c.LoginRoute = navigation.RouteLogin
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIBaseURL, validation.Required, is.URL),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.SessionDBPath, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.LoginRoute, validation.Required, validation.By(func(v any) error {
			if !strings.HasPrefix(v.(string), "/") {
				return fmt.Errorf("must start with /")
			}
			return nil
		})),
	)
}

// Override adjusts a loaded Config; it runs after the file and environment.
type Override func(*Config)

// WithAPIBaseURL overrides the base URL when u is not empty.
func WithAPIBaseURL(u string) Override {
	return func(c *Config) {
		if u != "" {
			c.APIBaseURL = u
		}
	}
}

// WithSessionDBPath overrides the database path when p is not empty.
func WithSessionDBPath(p string) Override {
	return func(c *Config) {
		if p != "" {
			c.SessionDBPath = p
		}
	}
}

// WithLogLevel overrides the log level when l is not empty.
func WithLogLevel(l string) Override {
	return func(c *Config) {
		if l != "" {
			c.LogLevel = l
		}
	}
}

// WithRequestTimeout overrides the request timeout when d is positive.
func WithRequestTimeout(d time.Duration) Override {
	return func(c *Config) {
		if d > 0 {
			c.RequestTimeout = d
		}
	}
}

// Load builds a Config from, in increasing precedence: defaults, the file
// at path (skipped when path is empty), a .env file in the working
// directory, process environment variables, and overrides. The result is
// validated.
func Load(path string, overrides ...Override) (*Config, error) {
	return load(path, []string{".env"}, overrides...)
}

func load(path string, envFiles []string, overrides ...Override) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	env, err := readEnv(envFiles)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	for _, o := range overrides {
		o(cfg)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// fileConfig is the on-disk shape, shared by JSON and YAML. Absent keys
// leave the corresponding value untouched.
type fileConfig struct {
	APIBaseURL     *string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SessionDBPath  *string         `json:"session_db_path" yaml:"session_db_path"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	LoginRoute     *string         `json:"login_route" yaml:"login_route"`
}

func (fc fileConfig) apply(c *Config) {
	if fc.APIBaseURL != nil {
		c.APIBaseURL = *fc.APIBaseURL
	}
	if fc.RequestTimeout != nil {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.SessionDBPath != nil {
		c.SessionDBPath = *fc.SessionDBPath
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LoginRoute != nil {
		c.LoginRoute = *fc.LoginRoute
	}
}
