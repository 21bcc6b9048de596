package repository

import (
	"context"
	"time"

	"github.com/okian/cognigate/internal/domain/gating"
	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/scoring"
	"github.com/okian/cognigate/internal/domain/types"
	"github.com/okian/cognigate/internal/domain/window"
)

// Quotas implements gating.QuotaService and the windowed aggregates the
// score aggregator consumes. Every value is recounted from raw activity
// records at call time; nothing here caches, so concurrent writers on other
// devices can never leave a counter stale past one read.
type Quotas struct {
	store ActivityStore
}

// NewQuotas creates a Quotas over an activity store.
func NewQuotas(store ActivityStore) *Quotas {
	return &Quotas{store: store}
}

// Counts implements gating.QuotaService.
func (q *Quotas) Counts(ctx context.Context, userID string, now time.Time) (gating.Counts, error) {
	weekFrom := window.StartOfWeek(now)
	recs, err := q.store.ActivitiesBetween(ctx, userID, weekFrom, now)
	if err != nil {
		return gating.Counts{}, err
	}

	var c gating.Counts
	for _, rec := range recs {
		today := window.SameDay(rec.Timestamp, now)
		switch rec.Kind {
		case types.KindGameSession:
			if rec.System == types.SystemS1 {
				if today {
					c.DailyS1++
				}
				continue
			}
			c.WeeklyS2++
			if today {
				c.DailyS2++
			}
			if rec.Skill == "insight" {
				c.WeeklyInsight++
			}
		case types.KindContentCompletion:
			if rec.ContentType == types.ContentArticle || rec.ContentType == types.ContentBook {
				if today {
					c.ReadingsToday++
				}
			}
			if rec.ContentType == types.ContentBook {
				c.BooksThisWeek++
			}
		}
	}
	return c, nil
}

// WeeklyGameXP sums XP from game sessions in the current ISO week.
func (q *Quotas) WeeklyGameXP(ctx context.Context, userID string, now time.Time) (float64, error) {
	recs, err := q.FilteredActivities(ctx, userID, window.StartOfWeek(now), now, ActivityFilter{Kind: types.KindGameSession})
	if err != nil {
		return 0, err
	}
	var xp float64
	for _, rec := range recs {
		xp += rec.XP
	}
	return xp, nil
}

// WeeklyRecoveryMinutes sums recovery session minutes in the current ISO week.
func (q *Quotas) WeeklyRecoveryMinutes(ctx context.Context, userID string, now time.Time) (float64, error) {
	recs, err := q.FilteredActivities(ctx, userID, window.StartOfWeek(now), now, ActivityFilter{Kind: types.KindRecoverySession})
	if err != nil {
		return 0, err
	}
	var minutes float64
	for _, rec := range recs {
		minutes += rec.Duration.Minutes()
	}
	return minutes, nil
}

// RecentS2Scores returns up to n most recent slow-system game scores,
// oldest first, as the consistency calculation expects.
func (q *Quotas) RecentS2Scores(ctx context.Context, userID string, n int, now time.Time) ([]float64, error) {
	recs, err := q.FilteredActivities(ctx, userID, time.Time{}, now, ActivityFilter{
		Kind:   types.KindGameSession,
		System: types.SystemS2,
	})
	if err != nil {
		return nil, err
	}
	scores := make([]float64, 0, len(recs))
	for _, rec := range recs {
		scores = append(scores, rec.Score)
	}
	if n > 0 && len(scores) > n {
		scores = scores[len(scores)-n:]
	}
	return scores, nil
}

// PrimingCompletions returns content completions inside the 7-day priming
// window ending at now.
func (q *Quotas) PrimingCompletions(ctx context.Context, userID string, now time.Time) ([]scoring.Completion, error) {
	from := window.Start(now, window.PrimingWindowDays+1)
	recs, err := q.store.ActivitiesBetween(ctx, userID, from, now)
	if err != nil {
		return nil, err
	}
	var out []scoring.Completion
	for _, rec := range recs {
		if rec.Kind == types.KindContentCompletion {
			out = append(out, scoring.Completion{Type: rec.ContentType, CompletedAt: rec.Timestamp})
		}
	}
	return out, nil
}

// CustomSessionMinutes returns the duration-weighted custom session total in
// the priming window, absent when no custom session was recorded at all.
func (q *Quotas) CustomSessionMinutes(ctx context.Context, userID string, now time.Time) (types.Maybe[float64], error) {
	from := window.Start(now, window.PrimingWindowDays+1)
	recs, err := q.store.ActivitiesBetween(ctx, userID, from, now)
	if err != nil {
		return types.None[float64](), err
	}
	var minutes float64
	found := false
	for _, rec := range recs {
		if rec.Kind == types.KindContentCompletion && rec.ContentType == types.ContentCustom {
			found = true
			minutes += rec.Duration.Minutes()
		}
	}
	if !found {
		return types.None[float64](), nil
	}
	return types.Some(minutes), nil
}

// DaysInactive returns the days since the last slow-system game or content
// task. A user with no records at all reports zero: new users never decay.
func (q *Quotas) DaysInactive(ctx context.Context, userID string, now time.Time) (int, error) {
	recs, err := q.store.ActivitiesBetween(ctx, userID, time.Time{}, now)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}
	last := time.Time{}
	for _, rec := range recs {
		s2Game := rec.Kind == types.KindGameSession && rec.System == types.SystemS2
		contentTask := rec.Kind == types.KindContentCompletion
		if (s2Game || contentTask) && rec.Timestamp.After(last) {
			last = rec.Timestamp
		}
	}
	if last.IsZero() {
		// Records exist but none of them reset the decay clock; count from
		// the earliest record.
		last = recs[0].Timestamp
	}
	return window.DaysBetween(last, now), nil
}

var _ gating.QuotaService = (*Quotas)(nil)

// ActivityFilter narrows an ActivitiesBetween scan.
type ActivityFilter struct {
	Kind   types.ActivityKind
	System types.SystemType
}

// FilteredActivities returns a user's records in [from, to] matching the
// non-zero filter fields, oldest first.
func (q *Quotas) FilteredActivities(ctx context.Context, userID string, from, to time.Time, f ActivityFilter) ([]model.ActivityRecord, error) {
	recs, err := q.store.ActivitiesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	var out []model.ActivityRecord
	for _, rec := range recs {
		if f.Kind != "" && rec.Kind != f.Kind {
			continue
		}
		if f.System != "" && rec.System != f.System {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
