// Package config loads runtime configuration for the branchsync CLI.
//
// Sources & precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Backend credentials are not configuration: they live in the local
// credential store and are edited through the configure command.
package config

import "time"

// Config holds runtime settings for the branchsync CLI.
//
// Fields:
//   - DatabaseDSN: path of the local SQLite database.
//   - BranchID: this branch's identifier; two branches must never share one.
//   - UserName: attribution recorded on adjustments and audit entries.
//   - DebounceWindow: quiet window before a master-data push fires.
//   - StatusDisplayWindow: how long success/error stays on the indicator.
type Config struct {
	DatabaseDSN         string
	BranchID            string
	UserName            string
	DebounceWindow      time.Duration
	StatusDisplayWindow time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "branchsync.db"
	c.BranchID = "main"
	c.UserName = "admin"
	c.DebounceWindow = 3 * time.Second
	c.StatusDisplayWindow = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
