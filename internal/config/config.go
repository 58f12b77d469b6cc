// Package config loads the tool configuration from an optional TOML file and
// supplies defaults for every tunable.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"manga-panel-extractor/internal/border"
	"manga-panel-extractor/internal/detect"
	"manga-panel-extractor/internal/layout"
)

// Config holds every tunable of the extraction pipeline. Field values map
// 1:1 onto the option structs of the border, layout and detect packages.
type Config struct {
	// Border removal.
	SearchZoneRatio   float64 `toml:"search_zone_ratio"`
	Padding           int     `toml:"padding"`
	PadSize           int     `toml:"pad_size"`
	ErosionIterations int     `toml:"erosion_iterations"`

	// Reading order.
	SpanningRatio float64 `toml:"spanning_ratio"`
	RTL           bool    `toml:"rtl"`

	// Page detection.
	MinAreaRatio float64 `toml:"min_area_ratio"`
	CloseKernel  int     `toml:"close_kernel"`

	// Batch processing.
	Workers    int `toml:"workers"`
	ThumbWidth int `toml:"thumb_width"`
}

// Default returns the built-in configuration.
func Default() Config {
	b := border.DefaultOptions()
	d := detect.DefaultOptions()
	return Config{
		SearchZoneRatio:   b.SearchZoneRatio,
		Padding:           b.Padding,
		PadSize:           b.PadSize,
		ErosionIterations: b.ErosionIterations,
		SpanningRatio:     layout.DefaultSpanningRatio,
		MinAreaRatio:      d.MinAreaRatio,
		CloseKernel:       d.CloseKernel,
		Workers:           4,
		ThumbWidth:        320,
	}
}

// Load reads path into a Config layered over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values outside the ranges the algorithms are defined for.
func (c Config) Validate() error {
	if c.SearchZoneRatio <= 0 || c.SearchZoneRatio >= 0.5 {
		return fmt.Errorf("search_zone_ratio %g outside (0, 0.5)", c.SearchZoneRatio)
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding %d must be non-negative", c.Padding)
	}
	if c.PadSize < 0 {
		return fmt.Errorf("pad_size %d must be non-negative", c.PadSize)
	}
	if c.ErosionIterations < 1 {
		return fmt.Errorf("erosion_iterations %d must be at least 1", c.ErosionIterations)
	}
	if c.SpanningRatio <= 0 || c.SpanningRatio > 1 {
		return fmt.Errorf("spanning_ratio %g outside (0, 1]", c.SpanningRatio)
	}
	if c.MinAreaRatio < 0 || c.MinAreaRatio >= 1 {
		return fmt.Errorf("min_area_ratio %g outside [0, 1)", c.MinAreaRatio)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers %d must be at least 1", c.Workers)
	}
	return nil
}

// BorderOptions maps the config onto border removal options.
func (c Config) BorderOptions() border.Options {
	return border.Options{
		SearchZoneRatio:   c.SearchZoneRatio,
		Padding:           c.Padding,
		PadSize:           c.PadSize,
		ErosionIterations: c.ErosionIterations,
	}
}

// LayoutOptions maps the config onto reading-order options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		RTL:           c.RTL,
		SpanningRatio: c.SpanningRatio,
	}
}

// DetectOptions maps the config onto page detection options.
func (c Config) DetectOptions() detect.Options {
	return detect.Options{
		MinAreaRatio: c.MinAreaRatio,
		CloseKernel:  c.CloseKernel,
	}
}
