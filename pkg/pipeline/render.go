package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/sink"
)

// BuildFrame runs the display pass for a scene.
func BuildFrame(scene whiteboard.Scene, opts Options) (display.Frame, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return display.Frame{}, err
	}
	return display.Build(scene, opts.DisplayOptions()...), nil
}

// Render renders every requested format from a frame. Formats are rendered
// concurrently; the first failure cancels the rest.
func Render(ctx context.Context, frame display.Frame, title string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := RenderFormat(frame, title, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat renders one format from a frame.
func RenderFormat(frame display.Frame, title, format string, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		data = sink.RenderSVG(frame, sink.WithTitle(title))
	case FormatPNG:
		data, err = sink.RenderPNG(frame, sink.WithScale(opts.Scale))
	case FormatPDF:
		data, err = sink.RenderPDF(frame, sink.WithPDFTitle(title))
	case FormatJSON:
		data, err = sink.RenderJSON(frame, sink.WithJSONTitle(title))
	case FormatTXT:
		data = sink.RenderText(frame)
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return data, nil
}
