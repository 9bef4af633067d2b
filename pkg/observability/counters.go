package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Counters tallies events in process. It implements every hook interface
// and is safe for concurrent use.
type Counters struct {
	started time.Time

	elements   atomic.Int64
	updates    atomic.Int64
	badUpdates atomic.Int64
	gestures   atomic.Int64
	committed  atomic.Int64
	viewport   atomic.Int64

	renders      atomic.Int64
	renderErrors atomic.Int64
	renderNanos  atomic.Int64

	hits     atomic.Int64
	misses   atomic.Int64
	sets     atomic.Int64
	setBytes atomic.Int64

	saves      atomic.Int64
	saveErrors atomic.Int64

	mu       sync.Mutex
	byFormat map[string]int64 // renders per format
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{started: time.Now(), byFormat: make(map[string]int64)}
}

// Install registers c for every hook category.
func (c *Counters) Install() {
	SetBoardHooks(c)
	SetRenderHooks(c)
	SetCacheHooks(c)
	SetSaveHooks(c)
}

func (c *Counters) OnElementCreated(string, int) { c.elements.Add(1) }

func (c *Counters) OnElementUpdated(_ string, err error) {
	c.updates.Add(1)
	if err != nil {
		c.badUpdates.Add(1)
	}
}

func (c *Counters) OnGesture(_ string, committed bool) {
	c.gestures.Add(1)
	if committed {
		c.committed.Add(1)
	}
}

func (c *Counters) OnViewportChanged(float64, float64, float64) { c.viewport.Add(1) }

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	c.renders.Add(1)
	c.renderNanos.Add(int64(d))
	if err != nil {
		c.renderErrors.Add(1)
		return
	}
	c.mu.Lock()
	for _, f := range formats {
		c.byFormat[f]++
	}
	c.mu.Unlock()
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.hits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.misses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.sets.Add(1)
	c.setBytes.Add(int64(size))
}

func (c *Counters) OnSaveStart(context.Context, int) {}

func (c *Counters) OnSaveComplete(_ context.Context, _ time.Duration, err error) {
	c.saves.Add(1)
	if err != nil {
		c.saveErrors.Add(1)
	}
}

// Snapshot is a point-in-time copy of [Counters], shaped for JSON.
type Snapshot struct {
	Uptime string `json:"uptime"`

	Board struct {
		ElementsCreated  int64 `json:"elements_created"`
		Updates          int64 `json:"updates"`
		RejectedUpdates  int64 `json:"rejected_updates"`
		Gestures         int64 `json:"gestures"`
		CommittedGestures int64 `json:"committed_gestures"`
		ViewportChanges  int64 `json:"viewport_changes"`
	} `json:"board"`

	Render struct {
		Runs      int64            `json:"runs"`
		Errors    int64            `json:"errors"`
		AvgMillis float64          `json:"avg_ms"`
		ByFormat  map[string]int64 `json:"by_format"`
	} `json:"render"`

	Cache struct {
		Hits       int64   `json:"hits"`
		Misses     int64   `json:"misses"`
		HitRatio   float64 `json:"hit_ratio"`
		Writes     int64   `json:"writes"`
		BytesWrote int64   `json:"bytes_written"`
	} `json:"cache"`

	Save struct {
		Completed int64 `json:"completed"`
		Failed    int64 `json:"failed"`
	} `json:"save"`
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() Snapshot {
	var s Snapshot
	s.Uptime = time.Since(c.started).Round(time.Second).String()

	s.Board.ElementsCreated = c.elements.Load()
	s.Board.Updates = c.updates.Load()
	s.Board.RejectedUpdates = c.badUpdates.Load()
	s.Board.Gestures = c.gestures.Load()
	s.Board.CommittedGestures = c.committed.Load()
	s.Board.ViewportChanges = c.viewport.Load()

	s.Render.Runs = c.renders.Load()
	s.Render.Errors = c.renderErrors.Load()
	if s.Render.Runs > 0 {
		avg := time.Duration(c.renderNanos.Load() / s.Render.Runs)
		s.Render.AvgMillis = float64(avg.Microseconds()) / 1000
	}
	c.mu.Lock()
	s.Render.ByFormat = make(map[string]int64, len(c.byFormat))
	for f, n := range c.byFormat {
		s.Render.ByFormat[f] = n
	}
	c.mu.Unlock()

	s.Cache.Hits = c.hits.Load()
	s.Cache.Misses = c.misses.Load()
	if total := s.Cache.Hits + s.Cache.Misses; total > 0 {
		s.Cache.HitRatio = float64(s.Cache.Hits) / float64(total)
	}
	s.Cache.Writes = c.sets.Load()
	s.Cache.BytesWrote = c.setBytes.Load()

	s.Save.Completed = c.saves.Load()
	s.Save.Failed = c.saveErrors.Load()
	return s
}
