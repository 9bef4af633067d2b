package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerTick  = 80 * time.Millisecond
	spinnerGrace = 150 * time.Millisecond // renders faster than this draw nothing
)

// spinner animates a status line on w while a render or save runs. After a
// second it appends the elapsed time.
type spinner struct {
	w       io.Writer
	message string
	grace   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		message: message,
		grace:   spinnerGrace,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Start launches the animation. Only the first call has an effect.
func (s *spinner) Start() {
	s.once.Do(func() { go s.loop() })
}

// Stop ends the animation and erases the line. It may be called more than
// once and without Start.
func (s *spinner) Stop() {
	s.cancel()
	s.once.Do(func() { close(s.done) })
	<-s.done
}

func (s *spinner) loop() {
	defer close(s.done)
	start := time.Now()

	select {
	case <-s.ctx.Done():
		return
	case <-time.After(s.grace):
	}

	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()
	width := 0
	for frame := 0; ; frame++ {
		text := s.message
		if elapsed := time.Since(start); elapsed >= time.Second {
			text += fmt.Sprintf(" %.1fs", elapsed.Seconds())
		}
		width = max(width, len([]rune(text))+2)
		fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]), StyleDim.Render(text))

		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width))
			return
		case <-ticker.C:
		}
	}
}
