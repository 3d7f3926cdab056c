package config

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, layered over DefaultConfig.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// The grid's 3x3 neighbor search truncates candidates beyond one cell
	// width, so a radius wider than a cell never takes full effect.
	if cfg.Coverage.RadiusDegrees > cfg.Coverage.CellSizeDegrees {
		log.Printf("Warning: radius_degrees (%g) exceeds cell_size_degrees (%g); candidates beyond one cell are never considered",
			cfg.Coverage.RadiusDegrees, cfg.Coverage.CellSizeDegrees)
	}

	return cfg, nil
}
