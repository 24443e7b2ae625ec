package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks the environment variables that override configuration.
	EnvPrefix = "APP_"

	// DefaultDir holds base.yaml and the per-profile files.
	DefaultDir = "configs"
)

func defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "sasuke-quotes",
			"version":     "dev",
			"environment": "local",
		},
		"server": map[string]any{
			"port":             DefaultServerPort,
			"host":             "0.0.0.0",
			"read_timeout":     "30s",
			"write_timeout":    "30s",
			"idle_timeout":     "120s",
			"shutdown_timeout": "10s",
			"max_request_size": DefaultMaxRequestSize,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "json",
			"file": map[string]any{
				"enabled":     false,
				"path":        "./logs/app.log",
				"max_size":    DefaultLogFileMaxSizeMB,
				"max_backups": DefaultLogFileMaxBackups,
				"max_age":     DefaultLogFileMaxAgeDays,
				"compress":    true,
			},
		},
		"telemetry": map[string]any{
			"enabled":       false,
			"endpoint":      "",
			"service_name":  "sasuke-quotes",
			"sampling_rate": 1.0,
			"insecure":      true,
		},
		"client": map[string]any{
			"timeout": "30s",
			"retry": map[string]any{
				"max_attempts":     DefaultClientRetryMaxAttempts,
				"initial_interval": "100ms",
				"max_interval":     "5s",
				"multiplier":       DefaultClientRetryMultiplier,
				"jitter_factor":    DefaultClientRetryJitterFactor,
			},
			"circuit_breaker": map[string]any{
				"max_failures":    DefaultClientCircuitMaxFailures,
				"timeout":         "30s",
				"half_open_limit": DefaultClientCircuitHalfOpenLimit,
			},
			"transport": map[string]any{
				"max_idle_conns":          DefaultTransportMaxIdleConns,
				"max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
				"idle_conn_timeout":       DefaultTransportIdleConnTimeout.String(),
			},
		},
		"services": map[string]any{
			"quote": map[string]any{
				"base_url": DefaultQuoteServiceURL,
				"name":     "quote-service",
			},
		},
		"storage": map[string]any{
			"driver":         DefaultStorageDriver,
			"path":           "./data/state.json",
			"dsn":            "",
			"table":          "kv_entries",
			"watch_changes":  true,
			"max_open_conns": 4,
			"conn_timeout":   "5s",
		},
		"reminder": map[string]any{
			"timezone":             "Local",
			"webhook_url":          "",
			"webhook_token":        "",
			"notifications_denied": false,
		},
	}
}

// Load reads configuration from DefaultDir for profile. See LoadFrom.
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultDir, profile)
}

// LoadFrom layers, lowest precedence first: built-in defaults,
// dir/base.yaml, dir/<profile>.yaml and APP_* environment variables
// (a .env file in the working directory feeds the environment). Missing
// files are skipped. The result is not validated; call Validate.
func LoadFrom(dir, profile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	// Known keys let APP_STORAGE_CONN_TIMEOUT resolve to storage.conn_timeout.
	known := envKeys(k.Keys())

	files := []string{filepath.Join(dir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(dir, profile+".yaml"))
	}

	for _, path := range files {
		if err := loadOptional(k, path); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(name string) string {
		return known[strings.ToLower(strings.TrimPrefix(name, EnvPrefix))]
	}), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// envKeys maps the lower-cased variable form of each key (dots as
// underscores) back to the key. Unknown variables map to "" and are ignored.
func envKeys(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[strings.ReplaceAll(key, ".", "_")] = key
	}

	return out
}

func loadOptional(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
