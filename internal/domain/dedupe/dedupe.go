// Package dedupe provides the idempotency guard for activity inserts. A
// session keyed (user, exercise, ISO week) that was already recorded must not
// award XP again when a client retries a write.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Key identifies one activity insert for idempotency purposes.
type Key struct {
	UserID     string
	ExerciseID string
	Week       string // ISO week key, e.g. "2026-W35"
}

// String renders the key in its stored form.
func (k Key) String() string {
	return k.UserID + "/" + k.ExerciseID + "/" + k.Week
}

// Guard records seen activity keys to ensure at-most-once XP awards.
type Guard interface {
	// SeenAndRecord atomically checks whether key was seen and records it if
	// not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key Key) bool

	// Unrecord removes a key, allowing a retry after the insert it guarded
	// failed terminally.
	Unrecord(ctx context.Context, key Key)

	Size() int64
}

// inMemoryGuard implements Guard with a bounded map. When the bound fills,
// the oldest recorded keys are evicted in insertion order; evicted keys fall
// back to the store-level recount, so eviction can never double-award XP
// silently within the retention window.
type inMemoryGuard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order for eviction
	maxSize int      // 0 or negative = unbounded
	size    atomic.Int64
}

// Option applies a configuration option to the guard.
type Option func(*inMemoryGuard)

// WithMaxSize bounds the number of keys kept in memory.
func WithMaxSize(maxSize int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = maxSize
	}
}

// defaultMaxSize bounds the guard when no option overrides it.
const defaultMaxSize = 100_000

// NewInMemoryGuard creates a bounded in-memory idempotency guard.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		seen:    make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SeenAndRecord implements Guard.
func (g *inMemoryGuard) SeenAndRecord(_ context.Context, key Key) bool {
	id := key.String()

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return true
	}
	if g.maxSize > 0 && len(g.seen) >= g.maxSize {
		g.evictOldest()
	}
	g.seen[id] = struct{}{}
	g.order = append(g.order, id)
	g.size.Add(1)
	return false
}

// Unrecord implements Guard.
func (g *inMemoryGuard) Unrecord(_ context.Context, key Key) {
	id := key.String()

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; !ok {
		return
	}
	delete(g.seen, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.size.Add(-1)
}

// evictOldest drops the oldest recorded key. Must be called with g.mu held.
func (g *inMemoryGuard) evictOldest() {
	for len(g.order) > 0 {
		oldest := g.order[0]
		g.order = g.order[1:]
		if _, ok := g.seen[oldest]; ok {
			delete(g.seen, oldest)
			g.size.Add(-1)
			return
		}
	}
}

// Size returns the current number of recorded keys.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
