// Package config holds runtime settings for the data-access layer.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver: "sqlite" or "postgres".
//   - DatabaseDSN: driver-specific data source name.
//   - DebounceWindow: quiescence interval after the last field edit before
//     an autosave fires.
//   - StatusDisplayWindow: how long Saved/Error status is shown before the
//     scheduler returns to Idle.
type Config struct {
	DatabaseDriver      string
	DatabaseDSN         string
	DebounceWindow      time.Duration
	StatusDisplayWindow time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "tripdocs.db"
	c.DebounceWindow = time.Second
	c.StatusDisplayWindow = 2 * time.Second
}

// Load constructs a Config, applies defaults, then overlays values from the
// JSON file at path (if non-empty). Later sources take precedence.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
