package config

import (
	"fmt"

	"github.com/kilianp07/cargofleet/core/allocation/logging"
)

// BackendNone disables the run log.
const BackendNone = "none"

// LoggingConfig defines settings for run log storage and rotation.
type LoggingConfig struct {
	// Backend selects the log store type: "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "allocations.db"
		default:
			c.Path = "allocations.log"
		}
	}
	if c.Backend == "rotating" && c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "rotating", "sqlite", BackendNone:
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Backend != BackendNone && c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// Options converts the section for logging.Open.
func (c LoggingConfig) Options() logging.Options {
	if c.Backend == BackendNone {
		return logging.Options{}
	}
	return logging.Options{
		Backend:    c.Backend,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
