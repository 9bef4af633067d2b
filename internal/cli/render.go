package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/visualnotes/visualnotes/pkg/errors"
	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/pipeline"
	"github.com/visualnotes/visualnotes/pkg/replay"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// renderOpts holds the command-line flags for the render command.
// Unset flags fall back to the config file.
type renderOpts struct {
	output    string  // output file, or base path for several formats; "-" for stdout
	formats   string  // comma-separated output formats
	width     float64 // canvas width in pixels
	height    float64 // canvas height in pixels
	theme     string  // palette name
	noGrid    bool    // hide the background grid
	noMinimap bool    // hide the minimap
	scale     float64 // PNG scale factor
	noCache   bool    // bypass the artifact cache entirely
	refresh   bool    // re-render and overwrite cached artifacts
	copy      bool    // copy the artifact (or its path) to the clipboard
	sample    bool    // render the built-in sample board

	sizeSet bool // width or height came from flags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [scene.json|script.yaml|-]",
		Short: "Render a board to SVG, PNG, PDF, JSON or text",
		Long: `Render a scene file or a replay script.

Scene files are JSON documents as written by "visualnotes new" and the board
editors. Files ending in .yaml or .yml are replayed first. Use "-" to read a
scene from stdin, or --sample to render the built-in sample board.`,
		Example: `  visualnotes render board.json
  visualnotes render board.json -f svg,png --theme dark
  visualnotes render planning.yaml -o out/planning.pdf -f pdf
  visualnotes render --sample -f txt -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" && !ro.sample {
				return errors.New(errors.ErrCodeInvalidInput, "need a scene file, a script, \"-\" or --sample")
			}
			opts := c.renderOptions(cmd, &ro)
			return c.runRender(cmd.Context(), input, &ro, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ro.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	f.StringVarP(&ro.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated)")
	f.Float64Var(&ro.width, "width", 0, "canvas width in pixels")
	f.Float64Var(&ro.height, "height", 0, "canvas height in pixels")
	f.StringVar(&ro.theme, "theme", "", "palette: light, dark")
	f.BoolVar(&ro.noGrid, "no-grid", false, "hide the background grid")
	f.BoolVar(&ro.noMinimap, "no-minimap", false, "hide the minimap")
	f.Float64Var(&ro.scale, "scale", 0, "PNG scale factor")
	f.BoolVar(&ro.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&ro.refresh, "refresh", false, "re-render even when cached")
	f.BoolVar(&ro.copy, "copy", false, "copy the output to the clipboard")
	f.BoolVar(&ro.sample, "sample", false, "render the built-in sample board")

	return cmd
}

// renderOptions layers changed flags over the config file.
func (c *CLI) renderOptions(cmd *cobra.Command, ro *renderOpts) pipeline.Options {
	opts := c.Config.PipelineOptions()
	flags := cmd.Flags()
	if fs := parseFormats(ro.formats); len(fs) > 0 {
		opts.Formats = fs
	}
	if flags.Changed("width") {
		opts.Width = ro.width
		ro.sizeSet = true
	}
	if flags.Changed("height") {
		opts.Height = ro.height
		ro.sizeSet = true
	}
	if flags.Changed("theme") {
		opts.Theme = ro.theme
	}
	if flags.Changed("no-grid") {
		opts.NoGrid = ro.noGrid
	}
	if flags.Changed("no-minimap") {
		opts.NoMinimap = ro.noMinimap
	}
	if flags.Changed("scale") {
		opts.Scale = ro.scale
	}
	opts.Refresh = ro.refresh
	opts.Logger = c.Logger
	return opts
}

// runRender loads the input and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, ro *renderOpts, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	scene, canvas, err := c.loadInput(ctx, input, ro.sample)
	if err != nil {
		return err
	}
	prog.stage("loaded input", "elements", len(scene.Elements))
	if !ro.sizeSet {
		if canvas.Width > 0 {
			opts.Width = canvas.Width
		}
		if canvas.Height > 0 {
			opts.Height = canvas.Height
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if ro.output == "-" && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdout output takes a single format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, "Rendering "+strings.Join(opts.Formats, ", "))
	if ro.output != "-" {
		spin.Start()
	}
	result, err := runner.Execute(ctx, scene, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.stage("rendered", "ops", result.Stats.Ops, "cached", result.CacheHit)

	multi := len(opts.Formats) > 1
	var written []string
	for _, format := range opts.Formats {
		data := result.Artifacts[format]
		if ro.output == "-" {
			if _, err := c.out.Write(data); err != nil {
				return err
			}
			continue
		}
		path := outputPath(ro.output, input, format, multi)
		if err := writeFile(path, data); err != nil {
			return err
		}
		written = append(written, path)
		logger.Debug("wrote artifact", "format", format, "bytes", len(data), "path", path)
	}

	if ro.copy {
		if err := copyResult(result, opts.Formats[0], written); err != nil {
			logger.Warn("clipboard unavailable", "err", err)
		}
	}

	if ro.output == "-" {
		return nil
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)), "input", input)
	p := c.printer()
	p.success("Rendered %s", scene.Title)
	for _, path := range written {
		p.file(path)
	}
	p.stats(result.Stats.Elements, result.Stats.Ops, result.CacheHit)
	return nil
}

// loadInput reads a scene from a file, a script, stdin or the sample.
// Scripts also report the canvas size they were recorded against.
func (c *CLI) loadInput(ctx context.Context, input string, sample bool) (whiteboard.Scene, replay.Canvas, error) {
	switch {
	case sample && input == "":
		return vnio.Sample(), replay.Canvas{}, nil
	case input == "-":
		s, err := vnio.ReadJSON(os.Stdin)
		return s, replay.Canvas{}, err
	case isScript(input):
		script, err := replay.Load(input)
		if err != nil {
			return whiteboard.Scene{}, replay.Canvas{}, err
		}
		scene, err := c.play(ctx, script)
		return scene, script.Canvas, err
	default:
		s, err := vnio.ImportJSON(input)
		return s, replay.Canvas{}, err
	}
}

// play runs a script on a fresh board and returns the final scene.
func (c *CLI) play(ctx context.Context, script *replay.Script, opts ...whiteboard.Option) (whiteboard.Scene, error) {
	opts = append([]whiteboard.Option{whiteboard.WithLogger(c.Logger)}, opts...)
	board, err := script.NewBoard(opts...)
	if err != nil {
		return whiteboard.Scene{}, err
	}
	defer board.Close()
	if err := replay.Run(ctx, board, script, replay.WithLogger(c.Logger)); err != nil {
		return whiteboard.Scene{}, err
	}
	return board.Scene(), nil
}

func isScript(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// copyResult puts textual artifacts on the clipboard, or the file path of
// binary ones.
func copyResult(result *pipeline.Result, format string, written []string) error {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatTXT:
		return clipboard.WriteAll(string(result.Artifacts[format]))
	}
	if len(written) == 0 {
		return nil
	}
	abs, err := filepath.Abs(written[0])
	if err != nil {
		return err
	}
	return clipboard.WriteAll(abs)
}
