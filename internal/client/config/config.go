package config

import "time"

// Config holds runtime settings for the NoteKeeper client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - RequestTimeout: upper bound for a single backend call.
//   - OnlineCheckInterval: how often the client checks server reachability.
//   - LogLevel: debug, info, warn or error; logs go to stderr.
//   - SessionFile: SQLite file that keeps the session between runs; empty
//     keeps it in memory only.
type Config struct {
	ServerEndpointAddr  string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
	SessionFile         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
	c.SessionFile = "notekeeper.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). args excludes the
// program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
