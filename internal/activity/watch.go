package activity

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wethinkt/go-molty/internal/dashlog"
)

// DefaultDebounce coalesces bursts of writes into one poll.
const DefaultDebounce = 250 * time.Millisecond

// Watcher re-polls a Tracker whenever a matching log file is created or
// written, instead of polling on a timer.
type Watcher struct {
	tracker  *Tracker
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher for the tracker's log directory.
func NewWatcher(t *Tracker, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{tracker: t, debounce: debounce, fsw: fsw}, nil
}

// Start begins watching and returns a channel of polls that consumed new
// content or switched files. The channel is closed when ctx is cancelled or
// the watcher is closed.
func (w *Watcher) Start(ctx context.Context) (<-chan Poll, error) {
	if err := w.fsw.Add(w.tracker.Dir()); err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.tracker.Dir(), err)
	}
	dashlog.Log.Debug("Watching log directory", "dir", w.tracker.Dir())

	polls := make(chan Poll, 8)
	go w.loop(ctx, polls)
	return polls, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, polls chan<- Poll) {
	defer close(polls)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			p := w.tracker.Poll()
			if p.BytesRead == 0 && !p.Reset {
				continue
			}
			select {
			case polls <- p:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			dashlog.Log.Error("Watcher error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	ok, err := filepath.Match(w.tracker.glob, filepath.Base(ev.Name))
	return err == nil && ok
}
