package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/visualnotes/visualnotes/pkg/cache"
	"github.com/visualnotes/visualnotes/pkg/errors"
	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"txt", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Formats: []string{"svg", "svg", "png"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("Formats = %v, want duplicates removed", opts.Formats)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %gx%g", opts.Width, opts.Height)
	}
	if opts.Theme != DefaultTheme || opts.Scale != DefaultScale {
		t.Errorf("theme = %q scale = %g", opts.Theme, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	empty := Options{}
	if err := empty.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(empty.Formats) != 1 || empty.Formats[0] != FormatSVG {
		t.Errorf("default formats = %v", empty.Formats)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"width", Options{Width: -1}, errors.ErrCodeInvalidInput},
		{"height", Options{Height: MaxDimension + 1}, errors.ErrCodeInvalidInput},
		{"theme", Options{Theme: "neon"}, errors.ErrCodeInvalidInput},
		{"scale", Options{Scale: 10}, errors.ErrCodeInvalidInput},
		{"scaled raster", Options{Width: MaxDimension, Height: MaxDimension, Scale: 4}, errors.ErrCodeInvalidInput},
		{"scaled width", Options{Width: 4000, Height: 4500, Scale: 4}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestOptionsPixelBound(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"max dimension at scale 1", Options{Width: MaxDimension, Height: MaxDimension, Scale: 1}},
		{"half dimension at scale 2", Options{Width: MaxDimension / 2, Height: MaxDimension / 2, Scale: 2}},
		{"wide strip at scale 4", Options{Width: MaxDimension, Height: 100, Scale: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("ValidateAndSetDefaults() error = %v", err)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{NoGrid: true, Scale: 2}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Grid || !svg.Minimap || svg.Scale != 0 {
		t.Errorf("svg key opts = %+v", svg)
	}
	if png := opts.ArtifactKeyOpts(FormatPNG); png.Scale != 2 {
		t.Errorf("png scale = %g, want 2", png.Scale)
	}
}

func TestRenderAllFormats(t *testing.T) {
	opts := Options{Formats: FormatNames(), Width: 320, Height: 200}
	frame, err := BuildFrame(vnio.Sample(), opts)
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(context.Background(), frame, "Sample", opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	prefixes := map[string]string{
		FormatSVG:  "<svg",
		FormatPNG:  "\x89PNG",
		FormatPDF:  "%PDF",
		FormatJSON: "{",
	}
	for _, f := range FormatNames() {
		data, ok := artifacts[f]
		if !ok || len(data) == 0 {
			t.Errorf("missing artifact %s", f)
			continue
		}
		if p, ok := prefixes[f]; ok && !bytes.HasPrefix(data, []byte(p)) {
			t.Errorf("%s artifact starts with %q", f, data[:min(8, len(data))])
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{Formats: []string{FormatSVG}}
	frame, _ := BuildFrame(whiteboard.Scene{}, opts)
	if _, err := Render(ctx, frame, "", opts); err == nil {
		t.Error("expected error for cancelled context")
	}
}

// countingCache records Get and Set calls.
type countingCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	gets int
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	c.ttls[key] = ttl
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

func TestRunnerCachesArtifacts(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()
	scene := vnio.Sample()
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, scene, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first render should miss")
	}
	if c.sets != 3 {
		t.Errorf("sets = %d, want 3 (two formats and the scene)", c.sets)
	}

	second, err := r.Execute(ctx, scene, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second render should hit")
	}
	if first.SceneHash != second.SceneHash {
		t.Error("hash changed between identical scenes")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if second.Stats.Elements != len(scene.Elements) || second.Stats.Ops == 0 {
		t.Errorf("stats = %+v", second.Stats)
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := r.Execute(ctx, scene, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should not hit")
	}
}

func TestRunnerRendersOnlyMissing(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	scene := vnio.Sample()

	if _, err := r.Render(ctx, scene, Options{Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	_, hit, err := r.RenderWithCacheInfo(ctx, scene, "", Options{Formats: []string{FormatSVG, FormatTXT}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("partial cache should not report a hit")
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want 2 (svg once, txt once)", c.sets)
	}
}

func TestRunnerStoresScene(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, cache.NewScopedKeyer(nil, "test:"), nil)
	ctx := context.Background()
	scene := vnio.Sample()

	result, err := r.Execute(ctx, scene, Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := "test:scene:" + result.SceneHash
	if c.ttls[key] != cache.TTLScene {
		t.Errorf("scene ttl = %v, want %v", c.ttls[key], cache.TTLScene)
	}

	got, err := r.Scene(ctx, result.SceneHash)
	if err != nil {
		t.Fatalf("Scene() error = %v", err)
	}
	if got.Title != scene.Title || len(got.Elements) != len(scene.Elements) {
		t.Errorf("Scene() = %q with %d elements, want %q with %d", got.Title, len(got.Elements), scene.Title, len(scene.Elements))
	}

	if _, err := r.Scene(ctx, "unknown"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Scene(unknown) error = %v, want NOT_FOUND", err)
	}
}

func TestExecuteRendersResultFrame(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	scene := vnio.Sample()
	opts := Options{Formats: []string{FormatJSON}, Width: 500, Height: 400, NoGrid: true}

	result, err := r.Execute(context.Background(), scene, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Frame.Width != 500 || result.Frame.Height != 400 {
		t.Errorf("frame size = %gx%g, want 500x400", result.Frame.Width, result.Frame.Height)
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	want, err := RenderFormat(result.Frame, scene.Title, FormatJSON, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(result.Artifacts[FormatJSON], want) {
		t.Error("json artifact was not rendered from the result frame")
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), whiteboard.Scene{}, Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestSceneHash(t *testing.T) {
	a := vnio.Sample()
	b := vnio.Sample()

	ha, err := SceneHash(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := SceneHash(b)
	if ha != hb {
		t.Error("equal scenes hash differently")
	}

	b.Selected = b.Elements[0].ID
	if hs, _ := SceneHash(b); hs == ha {
		t.Error("selection should change the hash")
	}

	c := vnio.Sample()
	c.Title = "Other"
	if hc, _ := SceneHash(c); hc == ha {
		t.Error("title should change the hash")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatSVG:  "image/svg+xml",
		FormatPNG:  "image/png",
		FormatPDF:  "application/pdf",
		FormatJSON: "application/json",
		"bin":      "application/octet-stream",
	}
	for f, want := range tests {
		if got := ContentType(f); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", f, got, want)
		}
	}
}
