package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/visualnotes/visualnotes/pkg/cache"
	"github.com/visualnotes/visualnotes/pkg/errors"
	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/observability"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP server and the terminal board all render through it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute runs the display and sink stages for a scene with caching.
func (r *Runner) Execute(ctx context.Context, scene whiteboard.Scene, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := SceneHash(scene)
	if err != nil {
		return nil, err
	}
	result := &Result{SceneHash: hash, Stats: Stats{Elements: len(scene.Elements)}}

	displayStart := time.Now()
	result.Frame, err = BuildFrame(scene, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.DisplayTime = time.Since(displayStart)
	result.Stats.Ops = len(result.Frame.Ops)

	renderStart := time.Now()
	artifacts, hit, err := r.render(ctx, scene, &result.Frame, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if !hit {
		r.storeScene(ctx, hash, scene)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered scene",
		"elements", result.Stats.Elements,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders artifacts with caching and reports whether
// every format was served from the cache. Only missing formats are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene whiteboard.Scene, hash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if hash == "" {
		var err error
		if hash, err = SceneHash(scene); err != nil {
			return nil, false, err
		}
	}
	return r.render(ctx, scene, nil, hash, opts)
}

// render serves formats from the cache and renders the rest from frame,
// building it when frame is nil. opts must already be validated.
func (r *Runner) render(ctx context.Context, scene whiteboard.Scene, frame *display.Frame, hash string, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact:"+format)
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact:"+format)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing

	opts.Logger.Debug("rendering formats", "formats", missing, "hash", hash[:min(12, len(hash))])
	start := time.Now()
	observability.Render().OnRenderStart(ctx, missing)
	if frame == nil {
		f := display.Build(scene, renderOpts.DisplayOptions()...)
		frame = &f
	}
	rendered, err := Render(ctx, *frame, scene.Title, renderOpts)
	observability.Render().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact:"+format, len(data))
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, scene whiteboard.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, scene, "", opts)
	return artifacts, err
}

// storeScene caches the scene document under its hash so it can be fetched
// again with [Runner.Scene]. Failures are logged and otherwise ignored.
func (r *Runner) storeScene(ctx context.Context, hash string, scene whiteboard.Scene) {
	var buf bytes.Buffer
	if err := vnio.WriteJSON(&buf, scene); err != nil {
		r.Logger.Warn("encode scene failed", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, r.Keyer.SceneKey(hash), buf.Bytes(), cache.TTLScene); err != nil {
		r.Logger.Warn("cache write failed", "scene", hash, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "scene", buf.Len())
}

// Scene returns the scene document of a previous Execute by its hash.
// Unknown or expired hashes fail with ErrCodeNotFound.
func (r *Runner) Scene(ctx context.Context, hash string) (whiteboard.Scene, error) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, r.Keyer.SceneKey(hash))
	if err != nil {
		return whiteboard.Scene{}, errors.Wrap(errors.ErrCodeCache, err, "load scene %s", hash)
	}
	if !hit {
		hooks.OnCacheMiss(ctx, "scene")
		return whiteboard.Scene{}, errors.New(errors.ErrCodeNotFound, "scene %s not found", hash)
	}
	hooks.OnCacheHit(ctx, "scene")
	return vnio.ReadJSON(bytes.NewReader(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// SceneHash returns the content hash of a scene. Transient state that
// changes the picture (selection, in-progress stroke) is part of the hash.
func SceneHash(scene whiteboard.Scene) (string, error) {
	var buf bytes.Buffer
	if err := vnio.WriteJSON(&buf, scene); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	fmt.Fprintf(&buf, "selected=%s\n", scene.Selected)
	for _, p := range scene.Draft {
		fmt.Fprintf(&buf, "draft=%g,%g\n", p.X, p.Y)
	}
	return cache.Hash(buf.Bytes()), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
