// Package cli implements the visualnotes command-line interface.
//
// # Commands
//
//   - new: create an empty or sample scene file
//   - render: render a scene file or replay script to SVG, PNG, PDF, JSON or text
//   - replay: run a replay script and write the resulting scene
//   - board: edit a scene in the terminal
//   - serve: serve renders over HTTP
//   - cache: inspect, prune or clear the artifact cache
//   - config: show or create the config file
//   - version: print build information
//
// # Logging
//
// The root command attaches its logger to the command context; handlers
// fetch it with loggerFromContext. Log lines go to stderr so artifacts
// written to stdout stay clean. --verbose (-v) lowers the level to debug,
// which also prints per-stage timings.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: short wall-clock timestamps, no caller.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command. stage logs the time spent since the previous
// stage at debug level; done logs the total at info level.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

func (p *progress) stage(name string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"took", now.Sub(p.last).Round(time.Microsecond)}, keyvals...)
	p.logger.Debug(name, kv...)
	p.last = now
}

func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or a
// logger that discards everything when a handler runs without one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.New(io.Discard)
}
