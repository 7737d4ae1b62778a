// Package logging configures the shared structured logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu     sync.Mutex
	logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
)

// Setup reconfigures the shared logger. Level is one of debug, info, warn,
// error (default info); format is "text" or "json".
func Setup(w io.Writer, level, format string) {
	if w == nil {
		w = os.Stderr
	}

	opts := charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           parseLevel(level),
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = charmlog.JSONFormatter
	}

	mu.Lock()
	defer mu.Unlock()
	logger = charmlog.NewWithOptions(w, opts)
}

// L returns the shared logger.
func L() *charmlog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func parseLevel(level string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}
