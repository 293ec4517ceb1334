// Package gitstats aggregates commit and line counts across the project
// checkouts the agent has published.
package gitstats

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wethinkt/go-molty/internal/dashlog"
)

// DefaultTTL is how long a computed snapshot is served before recomputing.
const DefaultTTL = 30 * time.Second

// Snapshot is the aggregate served at /api/stats.
type Snapshot struct {
	Commits  int `json:"commits"`
	LOC      int `json:"loc"`
	Projects int `json:"projects"`
}

// RepoCounter reports counts for one checkout. ok=false means the checkout
// contributed nothing and is skipped.
type RepoCounter interface {
	RepoStats(ctx context.Context, path string) (commits, loc int, ok bool)
}

// Aggregator computes Snapshots over the git checkouts directly under root
// and caches the result for a fixed TTL. Within the TTL the cached value is
// returned as-is even if the repositories changed.
type Aggregator struct {
	root         string
	counter      RepoCounter
	projectCount func() int
	ttl          time.Duration
	workers      int
	now          func() time.Time

	mu       sync.Mutex
	cached   bool
	cachedAt time.Time
	snapshot Snapshot
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTTL sets the cache lifetime. Zero disables caching.
func WithTTL(d time.Duration) Option {
	return func(a *Aggregator) {
		a.ttl = d
	}
}

// WithWorkers bounds how many repositories are counted at once.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator returns an aggregator over root. projectCount supplies the
// projects field and may be nil.
func NewAggregator(root string, counter RepoCounter, projectCount func() int, opts ...Option) *Aggregator {
	a := &Aggregator{
		root:         root,
		counter:      counter,
		projectCount: projectCount,
		ttl:          DefaultTTL,
		workers:      4,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stats returns the cached snapshot or computes a fresh one.
func (a *Aggregator) Stats(ctx context.Context) Snapshot {
	s, _ := a.Lookup(ctx)
	return s
}

// Lookup is Stats that also reports whether the value came from the cache.
// The lock is held while computing so concurrent callers wait for one
// computation instead of starting their own. A computation whose ctx was
// cancelled is returned but not cached.
func (a *Aggregator) Lookup(ctx context.Context) (Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached && a.ttl > 0 && a.now().Sub(a.cachedAt) < a.ttl {
		return a.snapshot, true
	}

	snap := a.compute(ctx)
	if ctx.Err() != nil {
		dashlog.Log.Debug("Stats computation cancelled, not caching", "error", ctx.Err())
		return snap, false
	}
	a.snapshot = snap
	a.cached = true
	a.cachedAt = a.now()
	return snap, false
}

func (a *Aggregator) compute(ctx context.Context) Snapshot {
	defer dashlog.Log.Timed("compute stats")()

	var snap Snapshot
	if a.projectCount != nil {
		snap.Projects = a.projectCount()
	}

	repos := Repos(a.root)
	if len(repos) == 0 {
		return snap
	}

	type result struct {
		commits, loc int
		ok           bool
	}
	results := make([]result, len(repos))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, repo := range repos {
		g.Go(func() error {
			c, l, ok := a.counter.RepoStats(ctx, repo)
			results[i] = result{c, l, ok}
			return nil
		})
	}
	g.Wait()

	for i, r := range results {
		if !r.ok {
			dashlog.Log.Debug("Skipping repository", "path", repos[i])
			continue
		}
		snap.Commits += r.commits
		snap.LOC += r.loc
	}
	return snap
}

// Repos lists the immediate subdirectories of root that contain a .git
// entry, sorted by name. A missing root yields nil.
func Repos(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var repos []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			repos = append(repos, dir)
		}
	}
	sort.Strings(repos)
	return repos
}
