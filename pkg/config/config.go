// Package config loads user settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/visualnotes/config.toml (falling back
// to ~/.config/visualnotes/config.toml). A missing file is not an error:
// [Default] is used instead. Command-line flags override file values.
//
//	[canvas]
//	width = 1280
//	height = 720
//	grid = true
//	minimap = true
//
//	[render]
//	formats = ["svg", "png"]
//	theme = "dark"
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "48h"
//
//	[save]
//	delay = "1s"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/visualnotes/visualnotes/pkg/cache"
	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/pipeline"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

const (
	appName  = "visualnotes"
	fileName = "config.toml"

	// DefaultAddr is the default listen address of the HTTP server.
	DefaultAddr = ":8080"
)

// Config is the full set of user settings.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Save   Save   `toml:"save"`
	Server Server `toml:"server"`
}

// Canvas holds render-pass settings.
type Canvas struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Grid    bool    `toml:"grid"`
	Minimap bool    `toml:"minimap"`
}

// Render holds output settings.
type Render struct {
	Formats []string `toml:"formats"`
	Theme   string   `toml:"theme"`
	Scale   float64  `toml:"scale"`
}

// Cache holds artifact cache settings. An empty Dir means the XDG cache
// directory; a RedisAddr selects the Redis backend instead of files.
type Cache struct {
	Disabled  bool          `toml:"disabled"`
	Dir       string        `toml:"dir,omitempty"`
	RedisAddr string        `toml:"redis_addr,omitempty"`
	TTL       time.Duration `toml:"ttl"`
}

// Save holds background save settings.
type Save struct {
	Delay time.Duration `toml:"delay"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr        string        `toml:"addr"`
	ReadTimeout time.Duration `toml:"read_timeout"`
	MaxBody     int64         `toml:"max_body"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		Canvas: Canvas{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Grid:    true,
			Minimap: true,
		},
		Render: Render{
			Formats: []string{pipeline.FormatSVG},
			Theme:   pipeline.DefaultTheme,
			Scale:   pipeline.DefaultScale,
		},
		Cache: Cache{TTL: cache.TTLArtifact},
		Save:  Save{Delay: whiteboard.DefaultSaveDelay},
		Server: Server{
			Addr:        DefaultAddr,
			ReadTimeout: 30 * time.Second,
			MaxBody:     4 << 20,
		},
	}
}

// DefaultPath returns the config file location using the XDG standard.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config at path. An empty path means [DefaultPath]. A
// missing file yields [Default].
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a config from r on top of [Default]. Unknown keys are
// rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	opts := c.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Save.Delay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "save.delay must not be negative")
	}
	if c.Server.MaxBody <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_body must be positive")
	}
	return nil
}

// PipelineOptions returns render options from the canvas and render
// sections.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Formats:   slices.Clone(c.Render.Formats),
		Width:     c.Canvas.Width,
		Height:    c.Canvas.Height,
		Theme:     c.Render.Theme,
		NoGrid:    !c.Canvas.Grid,
		NoMinimap: !c.Canvas.Minimap,
		Scale:     c.Render.Scale,
	}
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
