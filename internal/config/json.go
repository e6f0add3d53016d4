package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tripdocs/tripdocs/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "1s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type jsonConfig struct {
	DatabaseDriver      string         `json:"database_driver"`
	DatabaseDSN         string         `json:"database_dsn"`
	DebounceWindow      timex.Duration `json:"debounce_window"`
	StatusDisplayWindow timex.Duration `json:"status_display_window"`
}

// parseJSON overlays cfg with values loaded from a JSON file. An empty path
// means no JSON is loaded. Only fields present in the file override the
// defaults.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if jc.DatabaseDriver != "" {
		cfg.DatabaseDriver = jc.DatabaseDriver
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.DebounceWindow.Duration != 0 {
		cfg.DebounceWindow = jc.DebounceWindow.Duration
	}
	if jc.StatusDisplayWindow.Duration != 0 {
		cfg.StatusDisplayWindow = jc.StatusDisplayWindow.Duration
	}
	return nil
}
