package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	tests := []struct {
		name      string
		grace     time.Duration
		run       time.Duration
		wantDrawn bool
	}{
		{"draws after grace", time.Millisecond, 200 * time.Millisecond, true},
		{"quick work draws nothing", time.Hour, 10 * time.Millisecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out syncBuffer
			s := newSpinner(context.Background(), &out, "Rendering svg")
			s.grace = tt.grace
			s.Start()
			time.Sleep(tt.run)
			s.Stop()
			s.Stop()

			got := out.String()
			if drawn := strings.Contains(got, "Rendering svg"); drawn != tt.wantDrawn {
				t.Errorf("drawn = %v, want %v (output %q)", drawn, tt.wantDrawn, got)
			}
			if tt.wantDrawn && !strings.HasSuffix(got, "\r") {
				t.Errorf("line not cleared: %q", got)
			}
		})
	}
}

func TestSpinnerElapsed(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Saving")
	s.grace = 0
	s.Start()
	time.Sleep(1200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Saving 1.") {
		t.Errorf("output %q has no elapsed time", out.String())
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newSpinner(ctx, &out, "Saving")
	s.Start()
	cancel()

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after the parent context was cancelled")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), &buf, "idle")
	s.Stop()
	s.Start()
	if buf.String() != "" {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}
