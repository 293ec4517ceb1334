package dashlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 12, 30, 45, 123_000_000, time.UTC)
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)
	l.now = fixedClock

	l.Info("poll", "state", "coding", "bytes", 42)

	want := "12:30:45.123 [INFO] poll state=coding bytes=42\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below level should be dropped: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected 2 lines, got %q", out)
	}
}

func TestLoggerOddKeyvals(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)
	l.Warn("odd", "dangling")

	if !strings.Contains(buf.String(), "dangling=(missing)") {
		t.Errorf("expected dangling key marker, got %q", buf.String())
	}
}

func TestLoggerDisabled(t *testing.T) {
	l := New(nil, LevelDebug)
	if l.Enabled() {
		t.Error("logger without output should be disabled")
	}
	l.Error("nothing happens")
	if l.Writer() == nil {
		t.Error("Writer should never be nil")
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "molty.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Log.Close()

	Log.Info("hello", "k", "v")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello k=v") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)
	l.Timed("scan")()
	if !strings.Contains(buf.String(), "[DEBUG] scan duration=") {
		t.Errorf("expected timing line, got %q", buf.String())
	}

	calls := 0
	off := New(nil, LevelDebug)
	off.now = func() time.Time { calls++; return time.Now() }
	off.Timed("scan")()
	if calls != 0 {
		t.Errorf("disabled logger should not read the clock, got %d calls", calls)
	}
}
