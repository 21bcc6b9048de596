package gating

import (
	"context"
	"time"
)

// QuotaService supplies rolling-window counts recomputed from the durable
// activity store on every call. Device-local or in-memory counters are never
// the source of truth: under concurrent writers only a fresh recount keeps
// the hard caps honest.
type QuotaService interface {
	// Counts returns today's and this ISO week's counters for a user as of now.
	Counts(ctx context.Context, userID string, now time.Time) (Counts, error)
}
