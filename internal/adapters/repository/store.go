// Package repository defines the persistence collaborator interfaces the
// engine consumes, an in-memory reference implementation, and the quota
// service that recomputes cap counters from raw records.
package repository

import (
	"context"
	"time"

	"github.com/okian/cognigate/internal/domain/model"
)

// ActivityStore is the append-only activity event log.
type ActivityStore interface {
	// AppendActivity inserts one immutable record.
	AppendActivity(ctx context.Context, rec model.ActivityRecord) error

	// ActivitiesBetween returns a user's records with Timestamp in [from, to],
	// ordered oldest first.
	ActivitiesBetween(ctx context.Context, userID string, from, to time.Time) ([]model.ActivityRecord, error)
}

// SkillStore holds the single live SkillState per user.
type SkillStore interface {
	// Skills returns the user's skill state, or ErrNotFound.
	Skills(ctx context.Context, userID string) (model.SkillState, error)

	// PutSkills replaces the user's skill state.
	PutSkills(ctx context.Context, state model.SkillState) error
}

// BaselineStore holds the per-user baseline row.
type BaselineStore interface {
	// Baseline returns the user's baseline, or ErrNotFound before calibration
	// has ever run.
	Baseline(ctx context.Context, userID string) (model.Baseline, error)

	// PutBaseline replaces the user's baseline.
	PutBaseline(ctx context.Context, b model.Baseline) error
}

// SnapshotStore holds the one-per-day derived score snapshots.
type SnapshotStore interface {
	// PutSnapshot upserts the snapshot for its user and date.
	PutSnapshot(ctx context.Context, snap model.DerivedScoreSnapshot) error

	// SnapshotsBetween returns a user's snapshots with Date in [from, to],
	// ordered oldest first.
	SnapshotsBetween(ctx context.Context, userID string, from, to time.Time) ([]model.DerivedScoreSnapshot, error)
}

// ComboStore holds the append-only combo hash history per (user, game).
type ComboStore interface {
	// AppendCombo inserts one combo record.
	AppendCombo(ctx context.Context, combo model.ComboHash) error

	// RecentCombos returns up to n most recent combos for (user, game),
	// newest first.
	RecentCombos(ctx context.Context, userID, gameName string, n int) ([]model.ComboHash, error)
}

// Store is the full persistence surface the engine consumes.
type Store interface {
	ActivityStore
	SkillStore
	BaselineStore
	SnapshotStore
	ComboStore
}
