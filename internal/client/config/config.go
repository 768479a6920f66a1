package config

import "time"

// Config holds runtime settings for the Growth Pods CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the identity service, e.g. http://127.0.0.1:8080.
//   - StoragePath: SQLite file holding the client-local key/value store.
//   - RequestTimeout: per-request HTTP timeout applied by the transport.
//   - OnlineCheckInterval: how often the CLI probes server reachability.
//   - LogLevel: slog level name (debug, info, warn, error).
type Config struct {
	ServerBaseURL       string
	StoragePath         string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StoragePath = "growthpods.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
