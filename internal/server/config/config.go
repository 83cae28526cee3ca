// Package config handles configuration for the backend emulator: defaults,
// an optional JSON overlay and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the NoteKeeper backend emulator.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects in-memory storage.
//   - SecretKey: HMAC secret for access tokens (HS256).
//   - IdpSecretKey: HMAC secret for emulated google.com ID tokens.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - RecentLoginWindow: how old a sign-in may be for DeleteAccount to proceed.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC             string
	DatabaseDSN                  string
	SecretKey                    string
	IdpSecretKey                 string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	RecentLoginWindow            time.Duration
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are insecure and must be overridden outside local runs.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.IdpSecretKey = "idpSecretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.RecentLoginWindow = 5 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then flags. args excludes the program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
