// Package config loads the client configuration.
//
// Sources, in priority order: an explicit --config path, the GYMCLI_CONFIG
// environment variable, ~/.config/gymcli/config.yaml, and finally environment
// variables alone. A .env file in the working directory is loaded first and
// never overrides variables already set in the process environment.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Profile string `yaml:"profile" env:"GYMCLI_PROFILE" env-default:"local"`

	Backend BackendConfig `yaml:"backend"`
	Store   StoreConfig   `yaml:"store"`
	OTEL    OTELConfig    `yaml:"otel"`
	Dev     DevConfig     `yaml:"devserver"`
}

// BackendConfig points the client at the gym CRM backend.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" env:"GYMCLI_BASE_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"GYMCLI_TIMEOUT" env-default:"10s"`
}

// StoreConfig selects the token store backend once at startup.
type StoreConfig struct {
	Backend    string `yaml:"backend" env:"GYMCLI_STORE_BACKEND" env-default:"file"`
	StateDir   string `yaml:"state_dir" env:"GYMCLI_STATE_DIR"`
	SQLitePath string `yaml:"sqlite_path" env:"GYMCLI_SQLITE_PATH"`
	RedisAddr  string `yaml:"redis_addr" env:"GYMCLI_REDIS_ADDR" env-default:"localhost:6379"`
	RedisDB    int    `yaml:"redis_db" env:"GYMCLI_REDIS_DB" env-default:"0"`
	Namespace  string `yaml:"namespace" env:"GYMCLI_STORE_NAMESPACE" env-default:"gymcli"`
}

type OTELConfig struct {
	Enabled               bool          `yaml:"enabled" env:"GYMCLI_OTEL_ENABLED" env-default:"false"`
	ExporterOTLPEndpoint  string        `yaml:"otlp_endpoint" env:"GYMCLI_OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	ExporterOTLPInsecure  bool          `yaml:"otlp_insecure" env:"GYMCLI_OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
	ServiceName           string        `yaml:"service_name" env:"GYMCLI_OTEL_SERVICE_NAME" env-default:"gym-crm-cli"`
	Environment           string        `yaml:"environment" env:"GYMCLI_OTEL_ENVIRONMENT" env-default:"local"`
	MetricsExportInterval time.Duration `yaml:"metrics_export_interval" env:"GYMCLI_OTEL_METRICS_EXPORT_INTERVAL" env-default:"30s"`
}

// DevConfig configures the embedded development stub backend.
type DevConfig struct {
	Addr          string        `yaml:"addr" env:"GYMCLI_DEV_ADDR" env-default:":8080"`
	AccessSecret  string        `yaml:"access_secret" env:"GYMCLI_DEV_ACCESS_SECRET" env-default:"dev-access-secret-change-me-32bytes"`
	RefreshSecret string        `yaml:"refresh_secret" env:"GYMCLI_DEV_REFRESH_SECRET" env-default:"dev-refresh-secret-change-me-32byte"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"GYMCLI_DEV_ACCESS_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"GYMCLI_DEV_REFRESH_TTL" env-default:"720h"`
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	_ = LoadEnvFile(".env")

	cfg, err := load(path)
	recordConfigValidationEvent(context.Background(), profileOf(cfg), outcomeOf(err), classifyConfigLoadError(err))
	return cfg, err
}

func load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) error {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("read config %q: %w", p, err)
		}
		return nil
	}

	switch {
	case path != "":
		if err := tryRead(path); err != nil {
			return nil, err
		}
	case os.Getenv("GYMCLI_CONFIG") != "":
		if err := tryRead(os.Getenv("GYMCLI_CONFIG")); err != nil {
			return nil, err
		}
	default:
		if p := defaultConfigPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				if err := tryRead(p); err != nil {
					return nil, err
				}
				break
			}
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	switch c.Store.Backend {
	case "file", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gymcli", "config.yaml")
}

func profileOf(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Profile
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
