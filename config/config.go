// Package config loads host settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	pruntime "github.com/gosuda/prism/runtime"
)

type Config struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	CellWidth   int    `yaml:"cell_width"`
	CellHeight  int    `yaml:"cell_height"`
	ScopeMode   string `yaml:"scope_mode"`
	BlinkMS     int    `yaml:"blink_ms"`
	HistoryPath string `yaml:"history_path"`
	LogLevel    string `yaml:"log_level"`
	ScrollStep  int    `yaml:"scroll_step"`
}

func Default() Config {
	return Config{
		Width:      800,
		Height:     600,
		CellWidth:  6,
		CellHeight: 12,
		ScopeMode:  "shared",
		BlinkMS:    500,
		LogLevel:   "info",
		ScrollStep: 40,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("invalid cell size %dx%d", c.CellWidth, c.CellHeight)
	}
	if _, err := pruntime.ParseScopeMode(c.ScopeMode); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

func (c Config) Scope() pruntime.ScopeMode {
	m, _ := pruntime.ParseScopeMode(c.ScopeMode)
	return m
}

func (c Config) Blink() time.Duration {
	if c.BlinkMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.BlinkMS) * time.Millisecond
}

func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (c Config) Step() int {
	if c.ScrollStep <= 0 {
		return 40
	}
	return c.ScrollStep
}
