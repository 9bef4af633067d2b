// Package observability lets a binary watch the whiteboard, the render
// pipeline, the cache and background saves without those packages
// depending on a metrics backend.
//
// Library code reports events through the accessors:
//
//	observability.Board().OnGesture("pen", true)
//	observability.Render().OnRenderComplete(ctx, formats, elapsed, err)
//
// A binary installs implementations once at startup. [Counters] is the
// built-in one; the HTTP server exposes its snapshot at GET /stats.
//
//	counters := observability.NewCounters()
//	counters.Install()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// BoardHooks receives whiteboard edits. Calls happen on the UI goroutine
// and must return quickly.
type BoardHooks interface {
	OnElementCreated(kind string, total int)
	OnElementUpdated(id string, err error) // err is set for unknown ids
	OnGesture(tool string, committed bool)
	OnViewportChanged(zoom, panX, panY float64)
}

// RenderHooks brackets each render of formats that missed the cache.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives artifact cache lookups and writes. keyType is
// "artifact:<format>".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// SaveHooks brackets background save tasks.
type SaveHooks interface {
	OnSaveStart(ctx context.Context, elements int)
	OnSaveComplete(ctx context.Context, duration time.Duration, err error)
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnElementCreated(string, int)                                     {}
func (Noop) OnElementUpdated(string, error)                                   {}
func (Noop) OnGesture(string, bool)                                           {}
func (Noop) OnViewportChanged(float64, float64, float64)                      {}
func (Noop) OnRenderStart(context.Context, []string)                          {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                               {}
func (Noop) OnCacheMiss(context.Context, string)                              {}
func (Noop) OnCacheSet(context.Context, string, int)                          {}
func (Noop) OnSaveStart(context.Context, int)                                 {}
func (Noop) OnSaveComplete(context.Context, time.Duration, error)             {}

// registry is replaced wholesale on every Set call so readers never lock.
type registry struct {
	board  BoardHooks
	render RenderHooks
	cache  CacheHooks
	save   SaveHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

// update applies fn to a copy of the registry and publishes the copy.
func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetBoardHooks installs h. A nil h is ignored.
func SetBoardHooks(h BoardHooks) {
	if h != nil {
		update(func(r *registry) { r.board = h })
	}
}

// SetRenderHooks installs h. A nil h is ignored.
func SetRenderHooks(h RenderHooks) {
	if h != nil {
		update(func(r *registry) { r.render = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetSaveHooks installs h. A nil h is ignored.
func SetSaveHooks(h SaveHooks) {
	if h != nil {
		update(func(r *registry) { r.save = h })
	}
}

func Board() BoardHooks   { return current.Load().board }
func Render() RenderHooks { return current.Load().render }
func Cache() CacheHooks   { return current.Load().cache }
func Save() SaveHooks     { return current.Load().save }

// Reset puts [Noop] back in every slot.
func Reset() {
	current.Store(&registry{board: Noop{}, render: Noop{}, cache: Noop{}, save: Noop{}})
}
