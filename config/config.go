package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/metrics"
	"github.com/kilianp07/cargofleet/infra/monitoring"
	"github.com/kilianp07/cargofleet/infra/mqtt"
)

// DefaultCompany names the company when the configuration does not.
const DefaultCompany = "Aero-Trans"

type Config struct {
	Company string `json:"company"`
	// IDs selects how entity ids are generated: "random" or "sequence".
	IDs        string            `json:"ids"`
	Fleet      *FleetConfig      `json:"fleet"`
	Allocation allocation.Config `json:"allocation"`
	Metrics    metrics.Config    `json:"metrics"`
	Logging    LoggingConfig     `json:"logging"`
	// MQTT report publishing is disabled while Broker is empty.
	MQTT mqtt.Config `json:"mqtt"`
	// APIToken, when set, is required as a bearer token by /api/runs.
	APIToken string                  `json:"api_token"`
	Sentry   monitoring.SentryConfig `json:"sentry"`
}

// Load reads the file at path, applies K_ environment overrides and
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	// Optional environment overrides; "__" separates nested keys.
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every unset section.
func (c *Config) SetDefaults() {
	if c.Company == "" {
		c.Company = DefaultCompany
	}
	if c.IDs == "" {
		c.IDs = IDsRandom
	}
	if c.Fleet == nil {
		c.Fleet = DefaultFleet()
	}
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.IDs != IDsRandom && c.IDs != IDsSequence {
		return fmt.Errorf("ids: unknown generator %q", c.IDs)
	}
	if c.Fleet != nil {
		if err := c.Fleet.Validate(); err != nil {
			return fmt.Errorf("fleet: %w", err)
		}
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Default returns the configuration used without a config file.
func Default() *Config {
	var c Config
	c.SetDefaults()
	return &c
}
