// Package config loads client configuration from a TOML file and
// environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBackendURL is the backend address assumed when nothing is
// configured and no serving origin is known.
const DefaultBackendURL = "http://127.0.0.1:5000"

// Config holds all client configuration.
type Config struct {
	Backend BackendConfig
	Auth    AuthConfig
	Storage StorageConfig
	Log     LogConfig
}

// BackendConfig holds the REST backend connection settings.
type BackendConfig struct {
	BaseURL  string        // resolved once at startup, applied to all requests
	BasePath string        // API path prefix, e.g. "/api"
	Timeout  time.Duration // per-request timeout
	Origin   string        // serving origin used when BaseURL is not set
}

// AuthConfig holds session persistence settings.
type AuthConfig struct {
	TokenFile string // durable slot for the bearer token
}

// StorageConfig holds S3-compatible blob storage settings.
type StorageConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	UsePathStyle  bool
	PublicBaseURL string // base for public object URLs; defaults to endpoint/bucket
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from campusctl.toml and environment variables.
// Priority (highest to lowest):
//  1. Environment variables with CAMPUS_ prefix (e.g. CAMPUS_BACKEND_BASE_URL)
//  2. campusctl.toml
//  3. Built-in defaults
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("campusctl")
	v.SetConfigType("toml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	v.SetEnvPrefix("CAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL:  v.GetString("backend.base_url"),
			BasePath: v.GetString("backend.base_path"),
			Timeout:  v.GetDuration("backend.timeout"),
			Origin:   v.GetString("backend.origin"),
		},
		Auth: AuthConfig{
			TokenFile: v.GetString("auth.token_file"),
		},
		Storage: StorageConfig{
			Endpoint:      v.GetString("storage.endpoint"),
			Region:        v.GetString("storage.region"),
			Bucket:        v.GetString("storage.bucket"),
			AccessKey:     v.GetString("storage.access_key"),
			SecretKey:     v.GetString("storage.secret_key"),
			UseSSL:        v.GetBool("storage.use_ssl"),
			UsePathStyle:  v.GetBool("storage.use_path_style"),
			PublicBaseURL: v.GetString("storage.public_base_url"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Backend.BaseURL = ResolveBaseURL(cfg.Backend.BaseURL, cfg.Backend.Origin)
	if cfg.Backend.BasePath == "" {
		cfg.Backend.BasePath = "/api"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "student-images"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
}

// ResolveBaseURL picks the backend address once at startup. An explicit
// value always wins. When only a serving origin is known and it looks like
// a local development server, the conventional local backend port is
// assumed; otherwise requests go to the origin itself.
func ResolveBaseURL(explicit, origin string) string {
	if explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	if origin == "" {
		return DefaultBackendURL
	}
	if u, err := url.Parse(origin); err == nil {
		switch u.Port() {
		case "5173", "3000":
			// Vite / CRA dev server, backend runs separately.
			return DefaultBackendURL
		}
	}
	return strings.TrimRight(origin, "/")
}

// Validate checks the resolved configuration. Callers that override
// fields after Load must re-validate.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must be http or https, got %q", c.Backend.BaseURL)
	}
	if !strings.HasPrefix(c.Backend.BasePath, "/") {
		return fmt.Errorf("backend.base_path must start with /, got %q", c.Backend.BasePath)
	}
	return nil
}
