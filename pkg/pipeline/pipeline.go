// Package pipeline renders whiteboard scenes to output artifacts.
//
// This package is the single render path shared by the CLI, the HTTP
// server and the terminal board, so every entry point produces identical
// bytes for identical scenes.
//
// # Architecture
//
// A render runs in two stages:
//
//  1. Display: [display.Build] turns the scene into a frame (display list)
//  2. Sink: each requested format is rendered from the frame concurrently
//
// The [Runner] wraps both stages with a [cache.Cache] keyed by the scene
// content hash and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, board.Scene(), pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/visualnotes/visualnotes/pkg/cache"
	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Terminal
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = display.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = display.DefaultHeight

	// DefaultTheme is the default palette name.
	DefaultTheme = "light"

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0

	// MaxDimension bounds width and height so requests cannot allocate
	// arbitrarily large rasters.
	MaxDimension = 8192.0

	// MaxPixels bounds the scaled raster, width*scale by height*scale.
	MaxPixels = MaxDimension * MaxDimension
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatTXT  = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatTXT:  true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Render Configuration
// =============================================================================

// Options contains all configuration for a render.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats   []string `json:"formats,omitempty"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	NoGrid    bool     `json:"no_grid,omitempty"`
	NoMinimap bool     `json:"no_minimap,omitempty"`
	Scale     float64  `json:"scale,omitempty"` // PNG only
	Refresh   bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	theme display.Theme
}

// Result contains the outputs of a render.
type Result struct {
	// Frame is the display list the artifacts were rendered from.
	Frame display.Frame

	// SceneHash is the content hash of the scene.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool
}

// Stats contains render statistics.
type Stats struct {
	Elements    int
	Ops         int
	DisplayTime time.Duration
	RenderTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults. Duplicate
// formats are dropped. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", o.Width}, {"height", o.Height}} {
		if d.v < 1 || d.v > MaxDimension {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be between 1 and %g, got %g", d.name, MaxDimension, d.v)
		}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	theme, err := display.ThemeByName(o.Theme)
	if err != nil {
		return err
	}
	o.theme = theme
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0.1 || o.Scale > 4 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 0.1 and 4, got %g", o.Scale)
	}
	if px := o.Width * o.Scale * o.Height * o.Scale; px > MaxPixels {
		return errors.New(errors.ErrCodeInvalidInput, "%gx%g at scale %g is %.0f pixels, limit is %.0f", o.Width, o.Height, o.Scale, px, MaxPixels)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// DisplayOptions returns the display pass options.
func (o *Options) DisplayOptions() []display.Option {
	return []display.Option{
		display.WithSize(o.Width, o.Height),
		display.WithGrid(!o.NoGrid),
		display.WithMinimap(!o.NoMinimap),
		display.WithTheme(o.theme),
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		Width:   o.Width,
		Height:  o.Height,
		Theme:   o.Theme,
		Grid:    !o.NoGrid,
		Minimap: !o.NoMinimap,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func (o *Options) String() string {
	return fmt.Sprintf("%s %gx%g theme=%s", strings.Join(o.Formats, ","), o.Width, o.Height, o.Theme)
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
