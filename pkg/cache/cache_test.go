package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get after Set = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := c.Get(cancelled, "key"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get on cancelled context = %v, want context.Canceled", err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h))
	}
	if Hash([]byte("hello")) != h {
		t.Error("Hash is not deterministic")
	}
	if Hash([]byte("world")) == h {
		t.Error("different inputs share a hash")
	}
}

func TestDigestFieldBoundaries(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{"split point", []string{"ab", "c"}, []string{"a", "bc"}},
		{"empty field", []string{"a", ""}, []string{"a"}},
		{"order", []string{"x", "y"}, []string{"y", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if digest(tt.a...) == digest(tt.b...) {
				t.Errorf("digest(%q) == digest(%q)", tt.a, tt.b)
			}
		})
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.SceneKey("abc"); got != "scene:abc" {
		t.Errorf("SceneKey() = %q, want %q", got, "scene:abc")
	}

	base := ArtifactKeyOpts{Format: "svg", Width: 1280, Height: 800, Grid: true}
	key := k.ArtifactKey("hash123", base)
	if !strings.HasPrefix(key, "artifact:svg:") {
		t.Errorf("ArtifactKey() = %q, want artifact:svg: prefix", key)
	}
	if k.ArtifactKey("hash123", base) != key {
		t.Error("ArtifactKey is not deterministic")
	}

	variants := map[string]ArtifactKeyOpts{
		"format":  {Format: "png", Width: 1280, Height: 800, Grid: true},
		"width":   {Format: "svg", Width: 640, Height: 800, Grid: true},
		"grid":    {Format: "svg", Width: 1280, Height: 800},
		"theme":   {Format: "svg", Width: 1280, Height: 800, Grid: true, Theme: "dark"},
		"minimap": {Format: "svg", Width: 1280, Height: 800, Grid: true, Minimap: true},
		"scale":   {Format: "svg", Width: 1280, Height: 800, Grid: true, Scale: 2},
	}
	for name, v := range variants {
		if k.ArtifactKey("hash123", v) == key {
			t.Errorf("changing %s does not change the key", name)
		}
	}
	if k.ArtifactKey("other", base) == key {
		t.Error("different scene hashes share a key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "server:")

	if got := scoped.SceneKey("abc"); got != "server:scene:abc" {
		t.Errorf("SceneKey() = %q", got)
	}
	opts := ArtifactKeyOpts{Format: "pdf"}
	if got, want := scoped.ArtifactKey("h", opts), "server:"+inner.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey() = %q, want %q", got, want)
	}

	if got := NewScopedKeyer(nil, "p:").SceneKey("x"); got != "p:scene:x" {
		t.Errorf("nil inner SceneKey() = %q", got)
	}
}

func newTestFileCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	png := []byte("\x89PNG\r\n\x1a\nbinary\x00payload")
	if err := c.Set(ctx, "a", png, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != string(png) {
		t.Errorf("Get(a) = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "a", []byte("replaced"), 0); err != nil {
		t.Fatalf("Set (overwrite) error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "a"); string(data) != "replaced" {
		t.Errorf("Get after overwrite = %q", data)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted entry still hits")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}

	shard := filepath.Dir(c.path("a"))
	if pending, _ := filepath.Glob(filepath.Join(shard, tempPattern)); len(pending) != 0 {
		t.Errorf("temp files left behind: %v", pending)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry misses")
	}

	now = now.Add(time.Hour)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry hits at its expiry time")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file was not removed on read")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"old json entry", `{"data":"dg==","expires_at":"0001-01-01T00:00:00Z"}`},
		{"short header", "VNA1\x00"},
		{"empty", ""},
	}
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestFileCache(t)
			if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(c.path("k"), []byte(tt.raw), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
				t.Errorf("Get = hit %v, err %v; want miss", hit, err)
			}
		})
	}
}

func TestFileCacheStatsAndPrune(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	mustSet := func(key, value string, ttl time.Duration) {
		t.Helper()
		if err := c.Set(ctx, key, []byte(value), ttl); err != nil {
			t.Fatal(err)
		}
	}
	mustSet("keep", "12345", 0)
	mustSet("short", "xx", time.Minute)
	mustSet("long", "abc", 24*time.Hour)
	now = now.Add(time.Hour)

	s, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if want := (Stats{Entries: 2, Bytes: 8, Expired: 1}); s != want {
		t.Errorf("Stats() = %+v, want %+v", s, want)
	}

	n, err := c.Prune()
	if err != nil || n != 1 {
		t.Errorf("Prune() = %d, %v; want 1", n, err)
	}
	if s, _ := c.Stats(); s.Expired != 0 || s.Entries != 2 {
		t.Errorf("Stats after Prune = %+v", s)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if entries, _ := os.ReadDir(c.Dir()); len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear", len(entries))
	}

	missing := &FileCache{dir: filepath.Join(t.TempDir(), "nope"), now: time.Now}
	if n, err := missing.Clear(); n != 0 || err != nil {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "visualnotes-test:" + t.Name()
	defer c.Delete(ctx, key)

	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key still hits")
	}
}

func fastBackoff(t *testing.T) {
	t.Helper()
	old := dialBackoff
	dialBackoff = backoff{attempts: 3, first: time.Millisecond, max: 2 * time.Millisecond}
	t.Cleanup(func() { dialBackoff = old })
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	fastBackoff(t)
	_, err := NewRedisCache(context.Background(), "127.0.0.1:1")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache(unreachable) error = %v, want ErrUnavailable", err)
	}
	if isTransient(err) {
		t.Error("returned error still carries the transient marker")
	}
}

var errPermanent = errors.New("permanent")

func TestBackoffRetry(t *testing.T) {
	b := backoff{attempts: 3, first: time.Millisecond, max: time.Millisecond}
	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 1, nil},
		{"permanent error", 5, errPermanent, 1, errPermanent},
		{"recovers", 2, transient(ErrUnavailable), 3, nil},
		{"gives up", 5, transient(ErrUnavailable), 3, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.retry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := dialBackoff.retry(ctx, func() error {
		calls++
		return transient(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("fn ran %d times on a cancelled context", calls)
	}
}

func TestTransient(t *testing.T) {
	if transient(nil) != nil {
		t.Error("transient(nil) != nil")
	}
	err := transient(ErrUnavailable)
	if !isTransient(err) || !errors.Is(err, ErrUnavailable) {
		t.Errorf("transient(ErrUnavailable) = %v", err)
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("message changed: %q", err.Error())
	}
	if isTransient(errPermanent) {
		t.Error("plain error reported as transient")
	}
}
