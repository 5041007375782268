package logger

import (
	"fmt"
	"log"
	"log/slog"
)

// New returns a stdlib logger with component prefix that forwards into base at info level.
// Third-party clients that only accept *log.Logger-style sinks log through it.
func New(component string, base *slog.Logger) *log.Logger {
	if base == nil {
		base = slog.Default()
	}
	l := slog.NewLogLogger(base.With("component", component).Handler(), slog.LevelInfo)
	l.SetPrefix(fmt.Sprintf("[%s] ", component))
	return l
}
