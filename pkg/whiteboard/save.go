package whiteboard

import (
	"context"
	"sync"
	"time"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/observability"
)

// DefaultSaveDelay is the latency of the simulated saver.
const DefaultSaveDelay = time.Second

// SaveStatus is the save indicator shown next to the title.
type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusSaving  SaveStatus = "saving"
	StatusUnsaved SaveStatus = "unsaved"
	StatusError   SaveStatus = "error"
)

// Label returns the indicator text for s.
func (s SaveStatus) Label() string {
	switch s {
	case StatusSaving:
		return "Saving..."
	case StatusUnsaved:
		return "Unsaved changes"
	case StatusError:
		return "Save failed"
	default:
		return "All changes saved"
	}
}

// Saver persists a scene. Implementations must return promptly once ctx is
// done.
type Saver interface {
	Save(ctx context.Context, scene Scene) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, scene Scene) error

// Save calls f(ctx, scene).
func (f SaverFunc) Save(ctx context.Context, scene Scene) error { return f(ctx, scene) }

// SimulatedSaver stores nothing and succeeds after Delay.
type SimulatedSaver struct {
	Delay time.Duration
}

// Save waits for Delay or until ctx is done.
func (s SimulatedSaver) Save(ctx context.Context, _ Scene) error {
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SaveTask is one background save. It is cancelled when its parent context
// is done, when Cancel is called, or when the board is closed.
type SaveTask struct {
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// Done is closed when the task has finished.
func (t *SaveTask) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns its error. A cancelled
// task returns the context error.
func (t *SaveTask) Wait() error {
	<-t.done
	return t.err
}

// Cancel stops the task. Unless a newer save has started, the status
// returns to what it was before the save, or unsaved if the board changed.
// A task cancelled by Close leaves the status alone.
func (t *SaveTask) Cancel() { t.cancel() }

// saveState is the part of a board shared with save task goroutines.
type saveState struct {
	mu       sync.Mutex
	status   SaveStatus
	lastErr  error
	revision uint64 // bumped by every edit
	seq      uint64 // id of the latest started save
	closed   bool
	onChange func(SaveStatus)

	lifetime context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
}

func newSaveState(onChange func(SaveStatus)) *saveState {
	ctx, cancel := context.WithCancel(context.Background())
	return &saveState{
		status:   StatusSaved,
		onChange: onChange,
		lifetime: ctx,
		stop:     cancel,
	}
}

func (s *saveState) setLocked(st SaveStatus) func() {
	if s.status == st {
		return func() {}
	}
	s.status = st
	fn := s.onChange
	if fn == nil {
		return func() {}
	}
	return func() { fn(st) }
}

func (s *saveState) markDirty() {
	s.mu.Lock()
	s.revision++
	notify := s.setLocked(StatusUnsaved)
	s.mu.Unlock()
	notify()
}

// Status returns the current save status.
func (b *Board) Status() SaveStatus {
	b.save.mu.Lock()
	defer b.save.mu.Unlock()
	return b.save.status
}

// LastSaveError returns the error of the most recent failed save.
func (b *Board) LastSaveError() error {
	b.save.mu.Lock()
	defer b.save.mu.Unlock()
	return b.save.lastErr
}

// Save snapshots the board and persists it on a background goroutine.
// The status turns saving immediately, then saved (or unsaved if the board
// changed meanwhile) on success and error on failure. There is no retry.
func (b *Board) Save(ctx context.Context) *SaveTask {
	scene := b.Scene()
	scene.Draft = nil
	s := b.save

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		t := &SaveTask{done: make(chan struct{}), err: context.Canceled, cancel: func() {}}
		close(t.done)
		return t
	}
	s.seq++
	seq, rev, prev := s.seq, s.revision, s.status
	notify := s.setLocked(StatusSaving)
	taskCtx, cancel := context.WithCancel(s.lifetime)
	s.wg.Add(1)
	s.mu.Unlock()
	notify()

	stop := context.AfterFunc(ctx, cancel)
	t := &SaveTask{done: make(chan struct{}), cancel: cancel}
	saver, logger := b.saver, b.logger

	go func() {
		defer s.wg.Done()
		defer close(t.done)
		defer cancel()
		defer stop()

		observability.Save().OnSaveStart(taskCtx, len(scene.Elements))
		start := time.Now()
		err := saver.Save(taskCtx, scene)
		if err == nil && taskCtx.Err() != nil {
			err = taskCtx.Err()
		}
		observability.Save().OnSaveComplete(taskCtx, time.Since(start), err)

		if taskCtx.Err() != nil {
			t.err = taskCtx.Err()
			s.mu.Lock()
			notify := func() {}
			if !s.closed && seq == s.seq {
				if prev == StatusSaving || rev != s.revision {
					prev = StatusUnsaved
				}
				notify = s.setLocked(prev)
			}
			s.mu.Unlock()
			notify()
			logger.Debug("save cancelled", "title", scene.Title, "status", prev)
			return
		}
		if err != nil {
			t.err = errors.Wrap(errors.ErrCodeSaveFailed, err, "save %q", scene.Title)
		}

		s.mu.Lock()
		notify := func() {}
		if !s.closed && seq == s.seq {
			switch {
			case t.err != nil:
				s.lastErr = t.err
				notify = s.setLocked(StatusError)
			case rev == s.revision:
				s.lastErr = nil
				notify = s.setLocked(StatusSaved)
			default:
				notify = s.setLocked(StatusUnsaved)
			}
		}
		s.mu.Unlock()
		notify()

		if t.err != nil {
			logger.Error("save failed", "title", scene.Title, "err", err)
		} else {
			logger.Info("board saved", "title", scene.Title, "elements", len(scene.Elements), "took", time.Since(start).Round(time.Millisecond))
		}
	}()
	return t
}

// Close cancels every in-flight save and waits for them to finish. After
// Close, save tasks no longer touch the board and Save returns cancelled
// tasks.
func (b *Board) Close() {
	s := b.save
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stop()
	s.wg.Wait()
}
