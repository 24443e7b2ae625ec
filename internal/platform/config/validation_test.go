package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig mirrors the shipped defaults with a file backend.
func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "sasuke-quotes", Version: "1.0.0", Environment: "local"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1 << 20,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenLimit: 3},
			Transport:      TransportConfig{MaxIdleConns: 100, MaxIdleConnsPerHost: 10, IdleConnTimeout: 90 * time.Second},
		},
		Services: ServicesConfig{
			Quote: ServiceEndpointConfig{BaseURL: DefaultQuoteServiceURL, Name: "quote-service"},
		},
		Storage: StorageConfig{
			Driver:      "file",
			Path:        "./data/state.json",
			Table:       "kv_entries",
			ConnTimeout: 5 * time.Second,
		},
		Reminder: ReminderConfig{Timezone: "Local"},
	}
}

func TestConfig_Validate_Accepts(t *testing.T) {
	tests := map[string]func(*Config){
		"defaults":               func(*Config) {},
		"prod environment":       func(c *Config) { c.App.Environment = "prod" },
		"pretty logs":            func(c *Config) { c.Log.Format = "pretty" },
		"file logging with path": func(c *Config) { c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/app.log", MaxSizeMB: 100} },
		"disabled file logging":  func(c *Config) { c.Log.File.Path = "" },
		"port upper bound":       func(c *Config) { c.Server.Port = 65535 },
		"telemetry enabled": func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://localhost:4317", ServiceName: "svc", SamplingRate: 0.5}
		},
		"memory backend without path": func(c *Config) { c.Storage.Driver, c.Storage.Path = "memory", "" },
		"mysql with dsn": func(c *Config) {
			c.Storage.Driver, c.Storage.DSN = "mysql", "app:secret@tcp(localhost:3306)/sasuke"
		},
		"iana timezone":    func(c *Config) { c.Reminder.Timezone = "America/Sao_Paulo" },
		"webhook url":      func(c *Config) { c.Reminder.WebhookURL = "https://hooks.example.com/sasuke" },
		"ten retries":      func(c *Config) { c.Client.Retry.MaxAttempts = 10 },
		"zero sample rate": func(c *Config) { c.Telemetry.SamplingRate = 0 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)

			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }, "app.name is required"},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "app.environment must be one of: local dev qa prod test"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port is required"},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, "server.port must be at most 65535"},
		{"short read timeout", func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond }, "server.read_timeout must be at least 1s"},
		{"uppercase log level", func(c *Config) { c.Log.Level = "DEBUG" }, "log.level must be one of"},
		{"xml log format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of"},
		{"log file without path", func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} }, "log.file.path is required when Enabled true"},
		{"huge log file", func(c *Config) { c.Log.File.MaxSizeMB = 1025 }, "log.file.max_size must be at most 1024"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "svc"}
		}, "telemetry.endpoint is required"},
		{"telemetry endpoint not a url", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "collector", ServiceName: "svc"}
		}, "telemetry.endpoint must be a valid URL"},
		{"sample rate above one", func(c *Config) { c.Telemetry.SamplingRate = 1.1 }, "telemetry.sampling_rate must be at most 1"},
		{"client timeout", func(c *Config) { c.Client.Timeout = 50 * time.Millisecond }, "client.timeout must be at least 100ms"},
		{"eleven retries", func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, "client.retry.max_attempts must be at most 10"},
		{"flat multiplier", func(c *Config) { c.Client.Retry.Multiplier = 1 }, "client.retry.multiplier must be at least 1.1"},
		{"breaker never trips", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, "client.circuit_breaker.max_failures is required"},
		{"breaker timeout", func(c *Config) { c.Client.CircuitBreaker.Timeout = time.Millisecond }, "client.circuit_breaker.timeout must be at least 1s"},
		{"quote url", func(c *Config) { c.Services.Quote.BaseURL = "sasuke-api" }, "services.quote.base_url must be a valid URL"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "redis" }, "storage.driver must be one of"},
		{"sqlite without path", func(c *Config) { c.Storage.Driver, c.Storage.Path = "sqlite", "" }, "storage.path is required when"},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = "postgres" }, "storage.dsn is required when"},
		{"table with sql", func(c *Config) { c.Storage.Table = "kv; DROP TABLE x" }, "storage.table must be a plain SQL identifier"},
		{"timezone typo", func(c *Config) { c.Reminder.Timezone = "America/Konoha" }, "reminder.timezone must be an IANA time zone name"},
		{"missing timezone", func(c *Config) { c.Reminder.Timezone = "" }, "reminder.timezone is required"},
		{"webhook not a url", func(c *Config) { c.Reminder.WebhookURL = "not a url" }, "reminder.webhook_url must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Validate_ReportsEveryField(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.App.Version = ""
	cfg.Server.Port = -1

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed:")
	assert.Contains(t, err.Error(), "app.name is required")
	assert.Contains(t, err.Error(), "app.version is required")
	assert.Contains(t, err.Error(), "server.port must be at least 1")
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "client.retry.max_attempts", configKey("Config.client.retry.max_attempts"))
	assert.Equal(t, "Config", configKey("Config"))
}
