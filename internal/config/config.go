// Package config loads the optional buildlens.toml settings file.
// Flags always win over the file; the file wins over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up next to the traces (or above).
const FileName = "buildlens.toml"

// Config captures the keys a buildlens.toml may set. Только явно
// заданные ключи считаются установленными, см. HasTop и компанию.
type Config struct {
	Analysis struct {
		Top  int `toml:"top"`
		Jobs int `toml:"jobs"`
	} `toml:"analysis"`
	Report struct {
		Color string `toml:"color"`
	} `toml:"report"`

	topSet   bool
	jobsSet  bool
	colorSet bool
}

// HasTop reports whether [analysis].top was given in the file.
func (c Config) HasTop() bool { return c.topSet }

// HasJobs reports whether [analysis].jobs was given in the file.
func (c Config) HasJobs() bool { return c.jobsSet }

// HasColor reports whether [report].color was given in the file.
func (c Config) HasColor() bool { return c.colorSet }

// Find walks up from startDir to locate a buildlens.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses one buildlens.toml and validates its values.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.topSet = meta.IsDefined("analysis", "top")
	cfg.jobsSet = meta.IsDefined("analysis", "jobs")
	cfg.colorSet = meta.IsDefined("report", "color")

	if cfg.topSet && cfg.Analysis.Top <= 0 {
		return Config{}, fmt.Errorf("%s: [analysis].top must be positive, got %d", path, cfg.Analysis.Top)
	}
	if cfg.jobsSet && cfg.Analysis.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [analysis].jobs must not be negative, got %d", path, cfg.Analysis.Jobs)
	}
	if cfg.colorSet {
		switch cfg.Report.Color {
		case "auto", "on", "off":
		default:
			return Config{}, fmt.Errorf("%s: [report].color must be auto, on or off, got %q", path, cfg.Report.Color)
		}
	}
	return cfg, nil
}
