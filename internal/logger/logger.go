package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Config struct {
	// Dir receives strut.log. Empty means stderr.
	Dir   string
	Level string
}

var (
	mu      sync.RWMutex
	global  = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile *os.File
	ready   bool
)

// Setup installs the process-wide logger and returns a cleanup func that
// closes the log file and restores the discard logger.
func Setup(cfg Config) (func() error, error) {
	var out io.Writer = os.Stderr
	var f *os.File
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, err
		}
		var err error
		f, err = os.OpenFile(filepath.Join(cfg.Dir, "strut.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		out = f
	}

	l := New(out, cfg.Level)

	mu.Lock()
	global = l
	logFile = f
	ready = true
	mu.Unlock()

	l.Info("logger.initialized", "dir", cfg.Dir, "level", cfg.Level)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()
		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		ready = false
		global = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return cerr
	}
	return cleanup, nil
}

// New builds a JSON logger writing to w with UTC RFC3339 timestamps.
func New(w io.Writer, level string) *slog.Logger {
	lvl := ParseLevel(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Set replaces the global logger; tests use it to capture output.
func Set(l *slog.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	global = l
	mu.Unlock()
}

// IsReady reports whether Setup has installed the process-wide logger.
func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if !ready {
		return errors.New("logger not set up")
	}
	return nil
}
