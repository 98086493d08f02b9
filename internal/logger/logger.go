// Package logger provides the agent's slog handler and log file setup.
//
// Every record is written as a single line:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, key2=value2
//
// Two levels extend the slog set. [LevelTrace] carries per-tick decisions
// and [LevelFail] marks errors that end the process.
package logger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ///////////////////////////////////////////////
// Levels
// ///////////////////////////////////////////////

// Level values. The standard ones are re-exported so callers need only this
// package.
const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelFail  slog.Level = 12
)

// levelNames maps config spellings to levels.
var levelNames = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
	"fail":  LevelFail,
}

// levelName returns the bracketed label for l. Levels between the named
// ones round up.
func levelName(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l <= LevelDebug:
		return "DEBUG"
	case l <= LevelInfo:
		return "INFO"
	case l <= LevelWarn:
		return "WARN"
	case l <= LevelError:
		return "ERROR"
	default:
		return "FAIL"
	}
}

// ParseLevel converts a level name (case-insensitive) to a slog.Level.
// Unknown names yield [LevelInfo] and ok=false.
func ParseLevel(s string) (level slog.Level, ok bool) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LevelInfo, false
	}
	return l, true
}

// ///////////////////////////////////////////////
// Handler
// ///////////////////////////////////////////////

// lineEnding is CRLF on Windows.
var lineEnding = "\n"

func init() {
	if runtime.GOOS == "windows" {
		lineEnding = "\r\n"
	}
}

// Handler is a slog.Handler producing the single-line format described in
// the package doc. Handlers derived through WithAttrs and WithGroup share the
// writer lock and the level.
type Handler struct {
	// w receives one complete line per record.
	w io.Writer
	// mu serialises writes to w; shared with derived handlers.
	mu *sync.Mutex
	// level is the minimum level written.
	level slog.Leveler
	// attrs were added with WithAttrs, already qualified by their group.
	attrs []slog.Attr
	// group is the dotted prefix applied to record attributes.
	group string
}

// NewHandler creates a Handler writing to w. level may be a *slog.LevelVar
// to allow changing the threshold at runtime.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = LevelInfo
	}
	return &Handler{w: w, mu: &sync.Mutex{}, level: level}
}

// Enabled reports whether level meets the handler threshold.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats r as one line and writes it under the shared lock.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteString(" [")
	b.WriteString(levelName(r.Level))
	b.WriteString("] ")
	b.WriteString(r.Message)

	// h.attrs already carry their group; record attrs get the current one.
	n := 0
	for _, a := range h.attrs {
		appendAttr(&b, &n, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, &n, h.group, a)
		return true
	})
	b.WriteString(lineEnding)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// appendAttr writes one attribute, flattening groups into dotted keys.
func appendAttr(b *strings.Builder, n *int, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = joinKey(prefix, a.Key)
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, n, p, ga)
		}
		return
	}

	if *n == 0 {
		b.WriteString(" | ")
	} else {
		b.WriteString(", ")
	}
	*n++
	b.WriteString(joinKey(prefix, a.Key))
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// WithAttrs returns a handler that prefixes every line with attrs.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	if h.group != "" {
		attrs = []slog.Attr{{Key: h.group, Value: slog.GroupValue(attrs...)}}
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{w: h.w, mu: h.mu, level: h.level, attrs: merged, group: h.group}
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{w: h.w, mu: h.mu, level: h.level, attrs: h.attrs, group: joinKey(h.group, name)}
}

// ///////////////////////////////////////////////
// Setup
// ///////////////////////////////////////////////

// Options configures [New].
type Options struct {
	// Path is the log file. Rotated by size.
	Path string
	// Level is the minimum level written.
	Level slog.Leveler
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int
	// Console, if set, receives a copy of every line (headless runs).
	Console io.Writer
}

// New returns a logger writing to a rotating file. Close the returned
// io.Closer on exit.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Path == "" {
		return nil, nil, fmt.Errorf("log path is empty")
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 5
	}
	lj := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: 2,
		MaxAge:     14,
	}

	var w io.Writer = lj
	if opts.Console != nil {
		w = io.MultiWriter(lj, opts.Console)
	}
	return slog.New(NewHandler(w, opts.Level)), lj, nil
}

// Trace logs at [LevelTrace].
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

// Fail logs at [LevelFail].
func Fail(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelFail, msg, args...)
}

// ///////////////////////////////////////////////
// ReadTail
// ///////////////////////////////////////////////

// ReadTail returns the last n lines of the file at path, oldest first.
func ReadTail(path string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("line count must be positive, got %d", n)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ring := make([]string, n)
	total := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ring[total%n] = strings.TrimRight(sc.Text(), "\r")
		total++
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading log file: %w", err)
	}

	if total < n {
		return strings.Join(ring[:total], "\n"), nil
	}
	start := total % n
	return strings.Join(append(ring[start:], ring[:start]...), "\n"), nil
}
