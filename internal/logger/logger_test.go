// Tests for the line format, level handling, attribute grouping, file setup
// and ReadTail.
package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

func lastLine(buf *bytes.Buffer) string {
	return strings.TrimRight(buf.String(), "\r\n")
}

// ///////////////////////////////////////////////
// Format
// ///////////////////////////////////////////////

var lineRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z \[[A-Z]+\] `)

func TestHandler_Format(t *testing.T) {
	tests := []struct {
		name string
		log  func(*slog.Logger)
		want string
	}{
		{"no attrs", func(l *slog.Logger) { l.Info("engine registered") }, "[INFO] engine registered"},
		{"one attr", func(l *slog.Logger) { l.Warn("publish failed", "error", "refused") }, "[WARN] publish failed | error=refused"},
		{"many attrs", func(l *slog.Logger) { l.Info("tick", "left", "03:00:00", "right", "15:00:00") }, "| left=03:00:00, right=15:00:00"},
		{"inline group", func(l *slog.Logger) { l.Info("cfg", slog.Group("engine", "address", "127.0.0.1:1")) }, "| engine.address=127.0.0.1:1"},
		{"empty attr dropped", func(l *slog.Logger) { l.Info("x", slog.Attr{}) }, "] x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(slog.New(NewHandler(&buf, LevelInfo)))
			line := lastLine(&buf)
			if !lineRE.MatchString(line) {
				t.Errorf("line %q has wrong prefix", line)
			}
			if !strings.Contains(line, tt.want) {
				t.Errorf("line %q does not contain %q", line, tt.want)
			}
		})
	}
}

func TestHandler_NoPipeWithoutAttrs(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, LevelInfo)).Info("plain")
	if strings.Contains(buf.String(), "|") {
		t.Errorf("unexpected separator in %q", buf.String())
	}
}

// ///////////////////////////////////////////////
// Levels
// ///////////////////////////////////////////////

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, LevelWarn))
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("filtering wrong: %q", out)
	}
}

func TestHandler_LevelVar(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	lv.Set(LevelInfo)
	l := slog.New(NewHandler(&buf, lv))

	Trace(l, "first")
	lv.Set(LevelTrace)
	Trace(l, "second")

	out := buf.String()
	if strings.Contains(out, "first") {
		t.Error("trace written while level was info")
	}
	if !strings.Contains(out, "[TRACE] second") {
		t.Errorf("trace missing after level change: %q", out)
	}
}

func TestHandler_NilLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, nil))
	l.Debug("dbg")
	l.Info("inf")
	if strings.Contains(buf.String(), "dbg") || !strings.Contains(buf.String(), "inf") {
		t.Errorf("output %q", buf.String())
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, LevelTrace))
	Trace(l, "t")
	Fail(l, "f")
	out := buf.String()
	if !strings.Contains(out, "[TRACE] t") || !strings.Contains(out, "[FAIL] f") {
		t.Errorf("output %q", out)
	}
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{LevelTrace - 4, "TRACE"},
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelInfo + 2, "WARN"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelFail, "FAIL"},
	}
	for _, tt := range tests {
		if got := levelName(tt.level); got != tt.want {
			t.Errorf("levelName(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"trace", LevelTrace, true},
		{"DEBUG", LevelDebug, true},
		{" info ", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"error", LevelError, true},
		{"Fail", LevelFail, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

// ///////////////////////////////////////////////
// WithAttrs / WithGroup
// ///////////////////////////////////////////////

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo).WithAttrs([]slog.Attr{slog.String("component", "controller")})
	slog.New(h).Info("started", "mode", "enabled")

	if got := lastLine(&buf); !strings.HasSuffix(got, "| component=controller, mode=enabled") {
		t.Errorf("line = %q", got)
	}
}

func TestHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo).WithGroup("engine").WithGroup("http")
	slog.New(h).Info("post", "path", "game_event")

	if got := lastLine(&buf); !strings.Contains(got, "engine.http.path=game_event") {
		t.Errorf("line = %q", got)
	}
}

func TestHandler_AttrsThenGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo).
		WithAttrs([]slog.Attr{slog.String("a", "1")}).
		WithGroup("g").
		WithAttrs([]slog.Attr{slog.String("b", "2")})
	slog.New(h).Info("m", "c", "3")

	if got := lastLine(&buf); !strings.HasSuffix(got, "| a=1, g.b=2, g.c=3") {
		t.Errorf("line = %q", got)
	}
}

func TestHandler_WithEmptyReturnsSame(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, LevelInfo)
	if h.WithGroup("") != slog.Handler(h) {
		t.Error("WithGroup(\"\") should return the receiver")
	}
	if h.WithAttrs(nil) != slog.Handler(h) {
		t.Error("WithAttrs(nil) should return the receiver")
	}
}

func TestHandler_DerivedShareLock(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo)
	h2 := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(*Handler)
	if h.mu != h2.mu {
		t.Fatal("derived handler has its own mutex")
	}

	l1, l2 := slog.New(h), slog.New(h2)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() { defer wg.Done(); l1.Info("one") }()
		go func() { defer wg.Done(); l2.Info("two") }()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\r\n"), "\n")
	if len(lines) != 100 {
		t.Errorf("lines = %d, want 100", len(lines))
	}
	for _, ln := range lines {
		if !lineRE.MatchString(strings.TrimRight(ln, "\r")) {
			t.Errorf("interleaved line %q", ln)
			break
		}
	}
}

// ///////////////////////////////////////////////
// New
// ///////////////////////////////////////////////

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tarkovtime.log")
	l, closer, err := New(Options{Path: path, Level: LevelInfo, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hello file")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello file") {
		t.Errorf("file = %q", data)
	}
}

func TestNew_Console(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "tarkovtime.log")
	l, closer, err := New(Options{Path: path, Console: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	l.Info("both")
	if !strings.Contains(console.String(), "both") {
		t.Errorf("console = %q", console.String())
	}
}

func TestNew_EmptyPath(t *testing.T) {
	if _, _, err := New(Options{}); err == nil {
		t.Error("expected error for empty path")
	}
}

// ///////////////////////////////////////////////
// ReadTail
// ///////////////////////////////////////////////

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTail(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		want    string
	}{
		{"last three", "l1\nl2\nl3\nl4\nl5\n", 3, "l3\nl4\nl5"},
		{"exactly n", "l1\nl2\n", 2, "l1\nl2"},
		{"fewer than n", "l1\nl2\n", 10, "l1\nl2"},
		{"empty", "", 5, ""},
		{"crlf", "a\r\nb\r\n", 5, "a\nb"},
		{"wraps twice", "1\n2\n3\n4\n5\n6\n7\n", 3, "5\n6\n7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTail(writeLog(t, tt.content), tt.n)
			if err != nil {
				t.Fatalf("ReadTail: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadTail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadTail_Errors(t *testing.T) {
	if _, err := ReadTail(filepath.Join(t.TempDir(), "missing.log"), 5); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := ReadTail(writeLog(t, "x\n"), 0); err == nil {
		t.Error("expected error for n=0")
	}
}
