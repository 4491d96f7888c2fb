package logx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "debug"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

// ParseLevel maps a textual level (as found in config or LOGLEVEL-style env
// vars) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

var (
	mu       sync.RWMutex
	minLevel = LevelWarn
	verbose  bool
	logger   = zerolog.New(io.Discard)
)

// SetOutput sets the destination for logs. Terminals get the human readable
// console writer, everything else gets JSON lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, minLevel)
}

// SetMinLevel sets the minimum level to emit.
func SetMinLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
	logger = logger.Level(l.zerolog())
}

// SetVerbose toggles verbose output (no truncation of large messages).
func SetVerbose(v bool) { mu.Lock(); verbose = v; mu.Unlock() }

// Verbose returns whether verbose output is enabled.
func Verbose() bool { mu.RLock(); defer mu.RUnlock(); return verbose }

func newLogger(w io.Writer, lvl Level) zerolog.Logger {
	if w == nil {
		w = io.Discard
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
	}
	w = truncatingWriter{out: w, limit: maxFieldLen}
	return zerolog.New(w).Level(lvl.zerolog()).With().Timestamp().Logger()
}

// maxFieldLen bounds every string field of an event unless verbose output
// is on.
const maxFieldLen = 2 * 1024

// truncatingWriter shortens long string fields of zerolog's JSON lines
// before handing them on. Lines it cannot decode pass through untouched.
type truncatingWriter struct {
	out   io.Writer
	limit int
}

func (w truncatingWriter) Write(p []byte) (int, error) {
	if Verbose() || len(p) <= w.limit {
		return w.out.Write(p)
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return w.out.Write(p)
	}
	for k, v := range fields {
		if s, ok := v.(string); ok {
			fields[k] = truncate(s, w.limit)
		}
	}
	var line bytes.Buffer
	enc := json.NewEncoder(&line)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return w.out.Write(p)
	}
	if _, err := w.out.Write(line.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug starts a structured debug event. Events below the minimum level are
// nil and safe to chain.
func Debug() *zerolog.Event { l := current(); return l.Debug() }

// Info starts a structured info event.
func Info() *zerolog.Event { l := current(); return l.Info() }

// Warn starts a structured warning event.
func Warn() *zerolog.Event { l := current(); return l.Warn() }

// Error starts a structured error event.
func Error() *zerolog.Event { l := current(); return l.Error() }

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	// keep last 10 chars to aid context
	suffix := "… [truncated]"
	if limit > len(suffix)+10 {
		head := s[:limit-len(suffix)-10]
		tail := s[len(s)-10:]
		return head + suffix + tail
	}
	return s[:limit]
}
