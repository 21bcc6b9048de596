package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/window"
)

// MemStore is the in-memory reference implementation of Store. Records are
// kept per user in timestamp order; all methods are safe for concurrent use.
type MemStore struct {
	mu         sync.RWMutex
	activities map[string][]model.ActivityRecord                // userID -> records, oldest first
	skills     map[string]model.SkillState                      // userID -> live state
	baselines  map[string]model.Baseline                        // userID -> baseline row
	snapshots  map[string]map[string]model.DerivedScoreSnapshot // userID -> dayKey -> snapshot
	combos     map[string][]model.ComboHash                     // userID/game -> combos, oldest first
	comboKeep  int                                              // retained combos per (user, game)
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithComboRetention bounds how many combo rows are retained per (user, game).
func WithComboRetention(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.comboKeep = n
		}
	}
}

// defaultComboRetention bounds combo history when no option overrides it.
const defaultComboRetention = 100

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		activities: make(map[string][]model.ActivityRecord),
		skills:     make(map[string]model.SkillState),
		baselines:  make(map[string]model.Baseline),
		snapshots:  make(map[string]map[string]model.DerivedScoreSnapshot),
		combos:     make(map[string][]model.ComboHash),
		comboKeep:  defaultComboRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendActivity implements ActivityStore.
func (s *MemStore) AppendActivity(_ context.Context, rec model.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := append(s.activities[rec.UserID], rec)
	// Appends arrive roughly chronological; restore order when they don't.
	if n := len(recs); n > 1 && recs[n-1].Timestamp.Before(recs[n-2].Timestamp) {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Timestamp.Before(recs[j].Timestamp) })
	}
	s.activities[rec.UserID] = recs
	return nil
}

// ActivitiesBetween implements ActivityStore.
func (s *MemStore) ActivitiesBetween(_ context.Context, userID string, from, to time.Time) ([]model.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ActivityRecord
	for _, rec := range s.activities[userID] {
		if rec.Timestamp.Before(from) || rec.Timestamp.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Skills implements SkillStore.
func (s *MemStore) Skills(_ context.Context, userID string) (model.SkillState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.skills[userID]
	if !ok {
		return model.SkillState{}, ErrNotFound
	}
	return state, nil
}

// PutSkills implements SkillStore.
func (s *MemStore) PutSkills(_ context.Context, state model.SkillState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.skills[state.UserID] = state
	return nil
}

// Baseline implements BaselineStore.
func (s *MemStore) Baseline(_ context.Context, userID string) (model.Baseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.baselines[userID]
	if !ok {
		return model.Baseline{}, ErrNotFound
	}
	return b, nil
}

// PutBaseline implements BaselineStore.
func (s *MemStore) PutBaseline(_ context.Context, b model.Baseline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baselines[b.UserID] = b
	return nil
}

// PutSnapshot implements SnapshotStore. One snapshot per user per day; a
// same-day write replaces the previous one.
func (s *MemStore) PutSnapshot(_ context.Context, snap model.DerivedScoreSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, ok := s.snapshots[snap.UserID]
	if !ok {
		days = make(map[string]model.DerivedScoreSnapshot)
		s.snapshots[snap.UserID] = days
	}
	days[window.StartOfDay(snap.Date).Format(time.DateOnly)] = snap
	return nil
}

// SnapshotsBetween implements SnapshotStore.
func (s *MemStore) SnapshotsBetween(_ context.Context, userID string, from, to time.Time) ([]model.DerivedScoreSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.DerivedScoreSnapshot
	for _, snap := range s.snapshots[userID] {
		if snap.Date.Before(from) || snap.Date.After(to) {
			continue
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// comboKey keys combo history per (user, game).
func comboKey(userID, gameName string) string {
	return userID + "/" + gameName
}

// AppendCombo implements ComboStore, trimming history past the retention
// bound.
func (s *MemStore) AppendCombo(_ context.Context, combo model.ComboHash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := comboKey(combo.UserID, combo.GameName)
	combos := append(s.combos[key], combo)
	if len(combos) > s.comboKeep {
		combos = combos[len(combos)-s.comboKeep:]
	}
	s.combos[key] = combos
	return nil
}

// RecentCombos implements ComboStore, newest first.
func (s *MemStore) RecentCombos(_ context.Context, userID, gameName string, n int) ([]model.ComboHash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	combos := s.combos[comboKey(userID, gameName)]
	if n <= 0 || n > len(combos) {
		n = len(combos)
	}
	out := make([]model.ComboHash, 0, n)
	for i := len(combos) - 1; i >= len(combos)-n; i-- {
		out = append(out, combos[i])
	}
	return out, nil
}
