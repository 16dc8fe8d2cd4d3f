// Package config loads the scenario files the driver programs run with.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid scenario")

type Scenario struct {
	World   WorldConfig   `toml:"world" yaml:"world"`
	Churn   ChurnConfig   `toml:"churn" yaml:"churn"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type WorldConfig struct {
	MaxEntities   int `toml:"max_entities" yaml:"max_entities"`
	MaxComponents int `toml:"max_components" yaml:"max_components"`
	MaxSystems    int `toml:"max_systems" yaml:"max_systems"`
}

type ChurnConfig struct {
	Ticks          int   `toml:"ticks" yaml:"ticks"`
	SpawnPerTick   int   `toml:"spawn_per_tick" yaml:"spawn_per_tick"`
	DestroyPerTick int   `toml:"destroy_per_tick" yaml:"destroy_per_tick"`
	MutatePerTick  int   `toml:"mutate_per_tick" yaml:"mutate_per_tick"`
	Seed           int64 `toml:"seed" yaml:"seed"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Load reads the scenario at path on top of Default. The decoder is picked
// by extension: .toml, or .yaml/.yml. An empty path returns the defaults.
func Load(path string) (*Scenario, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("scenario %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the scenario used when no file is given.
func Default() *Scenario {
	return &Scenario{
		World: WorldConfig{
			MaxEntities:   100_000,
			MaxComponents: 64,
			MaxSystems:    16,
		},
		Churn: ChurnConfig{
			Ticks:          1000,
			SpawnPerTick:   200,
			DestroyPerTick: 150,
			MutatePerTick:  300,
			Seed:           1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the scenario for values the driver cannot run with.
func (s *Scenario) Validate() error {
	switch {
	case s.World.MaxEntities <= 0:
		return fmt.Errorf("%w: world.max_entities must be positive", ErrInvalid)
	case s.World.MaxComponents < 3:
		return fmt.Errorf("%w: world.max_components must be at least 3", ErrInvalid)
	case s.World.MaxSystems < 2:
		return fmt.Errorf("%w: world.max_systems must be at least 2", ErrInvalid)
	case s.Churn.Ticks < 0:
		return fmt.Errorf("%w: churn.ticks is negative", ErrInvalid)
	case s.Churn.SpawnPerTick < 0 || s.Churn.DestroyPerTick < 0 || s.Churn.MutatePerTick < 0:
		return fmt.Errorf("%w: churn rates must not be negative", ErrInvalid)
	}
	switch s.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format %q is not json or console", ErrInvalid, s.Logging.Format)
	}
	return nil
}
