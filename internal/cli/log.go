// Package cli implements the rackdesigner command line.
//
// Without a subcommand the desktop designer is started. The remaining
// commands work on project files directly: inspecting and validating them,
// adding racks and devices, exporting documents and managing the palette.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLevel maps a configured level name to a log level. Unknown or empty
// names fall back to info.
func parseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	settingsKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
