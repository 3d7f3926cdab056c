package config

import (
	"github.com/openroam/coverage-server/internal/lib/analyzer"
	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/grid"
)

// Config represents the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Coverage CoverageConfig `yaml:"coverage"`
	Points   PointsConfig   `yaml:"points"`
}

// ServerConfig holds server-specific settings.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// CoverageConfig holds the engine tunables. All of these were process-wide
// constants in earlier iterations; they are configuration now so deployments
// and tests can run with alternate parameters.
type CoverageConfig struct {
	CellSizeDegrees float64       `yaml:"cell_size_degrees" validate:"gt=0"`
	SegmentSize     int           `yaml:"segment_size" validate:"gt=0"`
	RadiusDegrees   float64       `yaml:"radius_degrees" validate:"gt=0"`
	Weights         WeightsConfig `yaml:"weights"`
}

// WeightsConfig is the per-technology-class score weight table.
type WeightsConfig struct {
	FiveG  float64 `yaml:"5g" validate:"gte=0,lte=1"`
	FourG  float64 `yaml:"4g" validate:"gte=0,lte=1"`
	ThreeG float64 `yaml:"3g" validate:"gte=0,lte=1"`
	Other  float64 `yaml:"other" validate:"gte=0,lte=1"`
}

// ToWeights converts the YAML table to the scorer's weight map.
func (w WeightsConfig) ToWeights() coverage.Weights {
	return coverage.Weights{
		coverage.Class5G:    w.FiveG,
		coverage.Class4G:    w.FourG,
		coverage.Class3G:    w.ThreeG,
		coverage.ClassOther: w.Other,
	}
}

// PointsConfig describes where the static observation document comes from.
// Exactly one of File or URL should be set.
type PointsConfig struct {
	File string `yaml:"file" validate:"omitempty,filepath"`
	URL  string `yaml:"url" validate:"omitempty,url"`
}

// EngineConfig returns the analyzer configuration slice of this config.
func (c *Config) EngineConfig() analyzer.Config {
	return analyzer.Config{
		SegmentSize:   c.Coverage.SegmentSize,
		RadiusDegrees: c.Coverage.RadiusDegrees,
	}
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Coverage: CoverageConfig{
			CellSizeDegrees: grid.DefaultCellSizeDegrees,
			SegmentSize:     analyzer.DefaultSegmentSize,
			RadiusDegrees:   analyzer.DefaultRadiusDegrees,
			Weights: WeightsConfig{
				FiveG:  1.0,
				FourG:  0.7,
				ThreeG: 0.4,
				Other:  0.1,
			},
		},
		Points: PointsConfig{
			File: "data/coverage_points.geojson",
		},
	}
}
