package activity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wethinkt/go-molty/internal/dashlog"
)

// DefaultStaleAfter is how long a log may go untouched before the agent is
// reported as sleeping.
const DefaultStaleAfter = 30 * time.Second

// Poll is the outcome of one status poll.
type Poll struct {
	Snapshot  Snapshot
	File      string // Log file read, empty when none was found
	BytesRead int64
	Reset     bool // Cursor was rewound to the start of the file
	Err       error
}

// Tracker tails the newest log file in a directory. Each poll consumes only
// the bytes appended since the previous poll. The cursor is the only state
// kept between polls, and it is guarded by mu for the whole poll so
// concurrent pollers never read the same bytes twice.
type Tracker struct {
	dir        string
	glob       string
	staleAfter time.Duration
	now        func() time.Time
	open       func(name string) (*os.File, error)

	mu     sync.Mutex
	cursor Cursor
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithStaleAfter overrides the staleness threshold.
func WithStaleAfter(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.staleAfter = d
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker returns a tracker for files matching glob inside dir.
func NewTracker(dir, glob string, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		dir:        dir,
		glob:       glob,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
		open:       os.Open,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dir returns the watched log directory.
func (t *Tracker) Dir() string {
	return t.dir
}

// Cursor returns a copy of the current read position.
func (t *Tracker) Cursor() Cursor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// Status returns the current snapshot. It never fails; problems are folded
// into the snapshot text.
func (t *Tracker) Status() Snapshot {
	return t.Poll().Snapshot
}

// Poll reads new log content and classifies it.
func (t *Tracker) Poll() Poll {
	if _, err := os.Stat(t.dir); err != nil {
		return Poll{Snapshot: Idle(ActivityNoLogs)}
	}

	latest, ok := t.LatestLog()
	if !ok {
		return Poll{Snapshot: Idle(ActivityIdle)}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p := Poll{File: latest}
	if t.cursor.Path != latest {
		dashlog.Log.Debug("New log session", "file", latest, "previous", t.cursor.Path)
		t.cursor = Cursor{Path: latest}
		p.Reset = true
	}

	chunk, modTime, rewound, err := t.readNew()
	if err != nil {
		dashlog.Log.Warn("Failed to read log", "file", latest, "error", err)
		p.Err = err
		p.Snapshot = Idle(ActivityReadError)
		return p
	}
	p.Reset = p.Reset || rewound
	p.BytesRead = int64(len(chunk))

	p.Snapshot = Summarize(splitLines(string(chunk), maxLines))

	if !modTime.IsZero() && t.now().Sub(modTime) > t.staleAfter {
		p.Snapshot.State = StateSleeping
		p.Snapshot.Activity = ActivityIdle
	}
	return p
}

// LatestLog returns the lexicographically greatest file matching the glob.
func (t *Tracker) LatestLog() (string, bool) {
	matches, err := filepath.Glob(filepath.Join(t.dir, t.glob))
	if err != nil {
		return "", false
	}
	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return "", false
	}
	sort.Strings(files)
	return files[len(files)-1], true
}

// readNew reads from the cursor to EOF and advances the cursor. A file that
// shrank below the cursor was truncated or replaced in place and is read from
// the start. Caller holds mu.
func (t *Tracker) readNew() (chunk []byte, modTime time.Time, rewound bool, err error) {
	f, err := t.open(t.cursor.Path)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("stat: %w", err)
	}
	modTime = info.ModTime()

	if info.Size() < t.cursor.Offset {
		t.cursor.Offset = 0
		rewound = true
	}

	if _, err := f.Seek(t.cursor.Offset, io.SeekStart); err != nil {
		return nil, modTime, rewound, fmt.Errorf("seek: %w", err)
	}
	chunk, err = io.ReadAll(f)
	if err != nil {
		return nil, modTime, rewound, fmt.Errorf("read: %w", err)
	}
	t.cursor.Offset += int64(len(chunk))
	return chunk, modTime, rewound, nil
}
