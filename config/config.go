// Package config handles selene.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/selene-lang/selene/pkg/gc"
)

// FileName is the project configuration file looked for on disk.
const FileName = "selene.toml"

// Config represents a selene.toml file.
type Config struct {
	GC    GC    `toml:"gc"`
	Cache Cache `toml:"cache"`

	// Dir is the directory containing the selene.toml file (set at load time).
	Dir string `toml:"-"`
}

// GC carries the collector's allocation knobs: initial per-generation
// thresholds and the floor an adaptive threshold never falls below.
type GC struct {
	YoungThreshold  int `toml:"young-threshold"`
	MiddleThreshold int `toml:"middle-threshold"`
	OldThreshold    int `toml:"old-threshold"`
	ThresholdFloor  int `toml:"threshold-floor"`
}

// Cache configures the compiled-chunk cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no selene.toml exists.
func Default() *Config {
	return &Config{
		GC: GC{
			YoungThreshold:  gc.DefaultYoungThreshold,
			MiddleThreshold: gc.DefaultMiddleThreshold,
			OldThreshold:    gc.DefaultOldThreshold,
			ThresholdFloor:  gc.DefaultThresholdFloor,
		},
		Cache: Cache{
			Enabled: true,
			Path:    ".selene/chunks.db",
		},
	}
}

// CollectorConfig converts the GC section into a collector configuration.
// Zero fields fall back to the collector's own defaults.
func (g GC) CollectorConfig() gc.Config {
	return gc.Config{
		YoungThreshold:  g.YoungThreshold,
		MiddleThreshold: g.MiddleThreshold,
		OldThreshold:    g.OldThreshold,
		ThresholdFloor:  g.ThresholdFloor,
	}
}

// Load parses a selene.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	return c, nil
}

// FindAndLoad walks up from startDir to find a selene.toml file, then
// loads and returns it. Returns nil if no configuration file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
