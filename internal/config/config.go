package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/ulule/limiter/v3"
)

// ConfigFileEnv names the environment variable holding an optional YAML config path
const ConfigFileEnv = "CONFIG_FILE"

// Config holds application configuration
type Config struct {
	DatabaseURL     string        `koanf:"database_url"`
	ServerPort      string        `koanf:"server_port"`
	FrontendURL     string        `koanf:"frontend_url"`
	EnableHSTS      bool          `koanf:"enable_hsts"`
	RedisURL        string        `koanf:"redis_url"`
	RateLimit       string        `koanf:"rate_limit"`
	RabbitMQURL     string        `koanf:"rabbitmq_url"`
	ServerDebugMode bool          `koanf:"server_debug_mode"`
	LogFile         string        `koanf:"log_file"`
	OTELEnabled     bool          `koanf:"otel_enabled"`
	OTELEndpoint    string        `koanf:"otel_exporter_otlp_endpoint"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
}

var defaults = map[string]any{
	"server_port":     "8080",
	"frontend_url":    "http://localhost:3000,http://127.0.0.1:3000",
	"enable_hsts":     false,
	"rate_limit":      "100-M",
	"auto_migrate":    true,
	"request_timeout": "30s",
}

// Option configures Load
type Option func(*loadOptions)

type loadOptions struct {
	configFile string
	environ    func() []string
}

// WithConfigFile reads the given YAML file before applying environment overrides
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithEnviron replaces os.Environ as the source of environment variables
func WithEnviron(environ func() []string) Option {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
// Later sources win. The YAML file path comes from WithConfigFile or CONFIG_FILE.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{environ: os.Environ}
	for _, opt := range opts {
		opt(o)
	}
	if o.configFile == "" {
		o.configFile = lookupEnv(o.environ, ConfigFileEnv)
	}

	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if o.configFile != "" {
		if err := k.Load(file.Provider(o.configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", o.configFile, err)
		}
	}

	known := make(map[string]bool)
	for _, key := range knownKeys() {
		known[key] = true
	}

	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc: o.environ,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(key)
			// Unset-looking values keep the lower layers
			if !known[key] || value == "" {
				return "", nil
			}
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required values and formats
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT must not be empty")
	}
	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		return fmt.Errorf("RATE_LIMIT %q is invalid: %w", c.RateLimit, err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

func knownKeys() []string {
	return []string{
		"database_url", "server_port", "frontend_url", "enable_hsts",
		"redis_url", "rate_limit", "rabbitmq_url", "server_debug_mode",
		"log_file", "otel_enabled", "otel_exporter_otlp_endpoint",
		"auto_migrate", "request_timeout",
	}
}

func lookupEnv(environ func() []string, name string) string {
	for _, kv := range environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && key == name {
			return value
		}
	}
	return ""
}
