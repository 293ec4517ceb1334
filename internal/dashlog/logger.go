// Package dashlog provides the leveled key/value logger used by the dashboard
// server and CLI. Output goes to a file (or any writer); when no destination is
// configured logging is a no-op.
package dashlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log severities.
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
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger writes timestamped lines of the form
//
//	15:04:05.000 [INFO] message key=value ...
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	file  *os.File
	level Level
	now   func() time.Time
}

// Log is the process-wide logger. It discards everything until Init or
// SetOutput is called.
var Log = &Logger{level: LevelInfo, now: time.Now}

// Init points the global logger at path, appending to any existing content.
// An empty path disables logging.
func Init(path string) error {
	if path == "" {
		Log.SetOutput(nil)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	Log.mu.Lock()
	if Log.file != nil {
		Log.file.Close()
	}
	Log.file = f
	Log.out = f
	Log.mu.Unlock()

	Log.Info("Logger initialized", "path", path)
	return nil
}

// New returns a logger writing to w at the given minimum level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: w, level: level, now: time.Now}
}

// SetOutput replaces the destination. A nil writer disables logging.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the log file opened by Init, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out = nil
	return err
}

// Enabled reports whether the logger has a destination.
func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out != nil
}

// Writer returns the destination for use by other logging sinks, such as the
// HTTP access log when --log is set. It never returns nil.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return io.Discard
	}
	return l.out
}

func (l *Logger) log(level Level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil || level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString(l.now().Format("15:04:05.000"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	if len(keyvals)%2 == 1 {
		fmt.Fprintf(&b, " %v=(missing)", keyvals[len(keyvals)-1])
	}
	b.WriteByte('\n')

	io.WriteString(l.out, b.String())
	if l.file != nil && l.out == io.Writer(l.file) {
		l.file.Sync()
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) { l.log(LevelDebug, msg, keyvals...) }

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) { l.log(LevelInfo, msg, keyvals...) }

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) { l.log(LevelWarn, msg, keyvals...) }

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) { l.log(LevelError, msg, keyvals...) }

// Timed logs the duration of an operation at debug level. Usage:
//
//	defer dashlog.Log.Timed("compute stats")()
func (l *Logger) Timed(operation string) func() {
	if !l.Enabled() {
		return func() {}
	}
	start := l.now()
	return func() {
		l.Debug(operation, "duration", l.now().Sub(start))
	}
}
