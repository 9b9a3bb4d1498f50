// Package config loads settings from a TOML file and SORTABLE_* environment variables.
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"

	"sortable-list/internal/sortable"
)

type Config struct {
	// DB is the data directory holding the SQLite file.
	DB      string     `toml:"db" json:"db"`
	LogFile string     `toml:"log_file" json:"logFile"`
	Debug   bool       `toml:"debug" json:"debug"`
	Drag    DragConfig `toml:"drag" json:"drag"`
	TUI     TUIConfig  `toml:"tui" json:"tui"`
}

type DragConfig struct {
	Enabled     bool    `toml:"enabled" json:"enabled"`
	Opacity     float64 `toml:"opacity" json:"opacity"`
	Scale       bool    `toml:"scale" json:"scale"`
	ScaleFactor float64 `toml:"scale_factor" json:"scaleFactor"`
	// Highlight is any lipgloss color: "#ff8800", "212", ... Empty means none.
	Highlight string `toml:"highlight" json:"highlight"`
	Spacing   int    `toml:"spacing" json:"spacing"`
}

type TUIConfig struct {
	// Glyphs is "unicode" or "ascii".
	Glyphs string `toml:"glyphs" json:"glyphs"`
}

func Default() *Config {
	p := sortable.DefaultProperties()
	return &Config{
		Drag: DragConfig{
			Enabled:     p.DragEnabled,
			Opacity:     p.Opacity,
			Scale:       p.ScaleEnabled,
			ScaleFactor: p.ScaleFactor,
		},
		TUI: TUIConfig{Glyphs: "unicode"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/sortable/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sortable", "config.toml"), nil
}

// Load reads path (DefaultPath when empty) over the defaults, then applies the environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("SORTABLE_DB")); v != "" {
		c.DB = v
	}
	if v := strings.TrimSpace(os.Getenv("SORTABLE_LOG_FILE")); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("SORTABLE_DEBUG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SORTABLE_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v := strings.TrimSpace(os.Getenv("SORTABLE_DRAG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SORTABLE_DRAG: %w", err)
		}
		c.Drag.Enabled = b
	}
	if v := strings.TrimSpace(os.Getenv("SORTABLE_GLYPHS")); v != "" {
		c.TUI.Glyphs = v
	}
	return nil
}

// Properties converts the drag section into widget properties.
func (c *Config) Properties() sortable.Properties {
	p := sortable.Properties{
		Opacity:      c.Drag.Opacity,
		ScaleEnabled: c.Drag.Scale,
		ScaleFactor:  c.Drag.ScaleFactor,
		Spacing:      c.Drag.Spacing,
		DragEnabled:  c.Drag.Enabled,
	}
	if h := strings.TrimSpace(c.Drag.Highlight); h != "" {
		p.Highlight = lipgloss.Color(h)
	}
	return p.Normalize()
}
