package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/cognigate/internal/adapters/repository"
	"github.com/okian/cognigate/internal/domain/gating"
	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// seedWeek loads one user's activity for the ISO week of Mon 2026-08-24,
// with "now" standing at Wednesday noon.
func seedWeek(ctx context.Context, s *repository.MemStore) {
	recs := []model.ActivityRecord{
		// last week, outside every weekly window
		{ID: "old-s2", Timestamp: ts(21, 9), Kind: types.KindGameSession, System: types.SystemS2, Skill: "ct", Score: 80, XP: 99},
		// this week
		{ID: "s1-tue", Timestamp: ts(25, 9), Kind: types.KindGameSession, System: types.SystemS1, Skill: "ae", Score: 66, XP: 20},
		{ID: "s1-wed-a", Timestamp: ts(26, 9), Kind: types.KindGameSession, System: types.SystemS1, Skill: "ae", Score: 70, XP: 20},
		{ID: "s1-wed-b", Timestamp: ts(26, 10), Kind: types.KindGameSession, System: types.SystemS1, Skill: "ra", Score: 72, XP: 20},
		{ID: "s2-mon", Timestamp: ts(24, 9), Kind: types.KindGameSession, System: types.SystemS2, Skill: "insight", Score: 60, XP: 50},
		{ID: "s2-wed", Timestamp: ts(26, 11), Kind: types.KindGameSession, System: types.SystemS2, Skill: "ct", Score: 70, XP: 50},
		{ID: "rec-tue", Timestamp: ts(25, 20), Kind: types.KindRecoverySession, Duration: 30 * time.Minute},
		{ID: "pod-wed", Timestamp: ts(26, 7), Kind: types.KindContentCompletion, ContentType: types.ContentPodcast},
		{ID: "art-wed", Timestamp: ts(26, 8), Kind: types.KindContentCompletion, ContentType: types.ContentArticle},
		{ID: "book-mon", Timestamp: ts(24, 18), Kind: types.KindContentCompletion, ContentType: types.ContentBook},
		{ID: "custom-tue", Timestamp: ts(25, 6), Kind: types.KindContentCompletion, ContentType: types.ContentCustom, Duration: 45 * time.Minute},
	}
	for _, rec := range recs {
		rec.UserID = "u1"
		if err := s.AppendActivity(ctx, rec); err != nil {
			panic(err)
		}
	}
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	now := ts(26, 12) // Wednesday noon

	Convey("Given a seeded week of activity", t, func() {
		s := repository.NewMemStore()
		seedWeek(ctx, s)
		q := repository.NewQuotas(s)

		Convey("When the gate counters are recounted", func() {
			c, err := q.Counts(ctx, "u1", now)
			So(err, ShouldBeNil)

			Convey("Then fast-system sessions count only for today", func() {
				So(c.DailyS1, ShouldEqual, 2)
			})

			Convey("Then slow-system sessions count daily and weekly", func() {
				So(c.DailyS2, ShouldEqual, 1)
				So(c.WeeklyS2, ShouldEqual, 2)
			})

			Convey("Then insight sessions feed their own weekly counter", func() {
				So(c.WeeklyInsight, ShouldEqual, 1)
			})

			Convey("Then only articles and books count as readings", func() {
				So(c.ReadingsToday, ShouldEqual, 1)
				So(c.BooksThisWeek, ShouldEqual, 1)
			})
		})

		Convey("When an unknown user is counted", func() {
			c, err := q.Counts(ctx, "nobody", now)
			So(err, ShouldBeNil)
			So(c, ShouldResemble, gating.Counts{})
		})
	})
}

func TestWeeklyAggregates(t *testing.T) {
	ctx := context.Background()
	now := ts(26, 12)

	Convey("Given a seeded week of activity", t, func() {
		s := repository.NewMemStore()
		seedWeek(ctx, s)
		q := repository.NewQuotas(s)

		Convey("Then weekly game XP excludes last week's sessions", func() {
			xp, err := q.WeeklyGameXP(ctx, "u1", now)
			So(err, ShouldBeNil)
			So(xp, ShouldEqual, 160)
		})

		Convey("Then recovery minutes sum only recovery sessions", func() {
			minutes, err := q.WeeklyRecoveryMinutes(ctx, "u1", now)
			So(err, ShouldBeNil)
			So(minutes, ShouldEqual, 30)
		})
	})
}

func TestFilteredActivities(t *testing.T) {
	ctx := context.Background()
	now := ts(26, 12)

	Convey("Given a seeded week of activity", t, func() {
		s := repository.NewMemStore()
		seedWeek(ctx, s)
		q := repository.NewQuotas(s)

		Convey("When filtering by kind", func() {
			recs, err := q.FilteredActivities(ctx, "u1", time.Time{}, now, repository.ActivityFilter{Kind: types.KindRecoverySession})

			Convey("Then only matching records return", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].ID, ShouldEqual, "rec-tue")
			})
		})

		Convey("When filtering by kind and system", func() {
			recs, err := q.FilteredActivities(ctx, "u1", time.Time{}, now, repository.ActivityFilter{
				Kind:   types.KindGameSession,
				System: types.SystemS2,
			})

			Convey("Then both fields narrow the scan, oldest first", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 3)
				So(recs[0].ID, ShouldEqual, "old-s2")
				So(recs[2].ID, ShouldEqual, "s2-wed")
			})
		})

		Convey("When the filter is empty", func() {
			recs, err := q.FilteredActivities(ctx, "u1", ts(24, 0), now, repository.ActivityFilter{})

			Convey("Then only the time range narrows the scan", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 10)
			})
		})
	})
}

func TestRecentS2Scores(t *testing.T) {
	ctx := context.Background()
	now := ts(26, 12)

	Convey("Given a seeded score history", t, func() {
		s := repository.NewMemStore()
		seedWeek(ctx, s)
		q := repository.NewQuotas(s)

		Convey("When more history exists than requested", func() {
			scores, err := q.RecentS2Scores(ctx, "u1", 2, now)

			Convey("Then the most recent scores return oldest first", func() {
				So(err, ShouldBeNil)
				So(scores, ShouldResemble, []float64{60, 70})
			})
		})

		Convey("When the request exceeds the history", func() {
			scores, err := q.RecentS2Scores(ctx, "u1", 10, now)
			So(err, ShouldBeNil)
			So(scores, ShouldResemble, []float64{80, 60, 70})
		})
	})
}

func TestPrimingInputs(t *testing.T) {
	ctx := context.Background()
	now := ts(26, 12)

	Convey("Given content completions around the priming window", t, func() {
		s := repository.NewMemStore()
		seedWeek(ctx, s)
		// Outside the 7-day window; must not appear.
		So(s.AppendActivity(ctx, model.ActivityRecord{
			ID: "stale", UserID: "u1", Timestamp: ts(10, 9),
			Kind: types.KindContentCompletion, ContentType: types.ContentBook,
		}), ShouldBeNil)
		q := repository.NewQuotas(s)

		Convey("Then only in-window completions feed priming", func() {
			comps, err := q.PrimingCompletions(ctx, "u1", now)
			So(err, ShouldBeNil)
			So(comps, ShouldHaveLength, 4)
		})

		Convey("Then custom minutes sum when custom sessions exist", func() {
			minutes, err := q.CustomSessionMinutes(ctx, "u1", now)
			So(err, ShouldBeNil)
			So(minutes.Present(), ShouldBeTrue)
			So(minutes.OrElse(0), ShouldEqual, 45)
		})

		Convey("Then custom minutes are absent, not zero, without custom sessions", func() {
			minutes, err := q.CustomSessionMinutes(ctx, "nobody", now)
			So(err, ShouldBeNil)
			So(minutes.Present(), ShouldBeFalse)
		})
	})
}

func TestDaysInactive(t *testing.T) {
	ctx := context.Background()
	now := ts(26, 12)

	Convey("Given varying activity histories", t, func() {
		s := repository.NewMemStore()
		q := repository.NewQuotas(s)

		Convey("When the user has no records at all", func() {
			days, err := q.DaysInactive(ctx, "fresh", now)

			Convey("Then new users never decay", func() {
				So(err, ShouldBeNil)
				So(days, ShouldEqual, 0)
			})
		})

		Convey("When the last slow-system task was today", func() {
			seedWeek(ctx, s)
			days, err := q.DaysInactive(ctx, "u1", now)
			So(err, ShouldBeNil)
			So(days, ShouldEqual, 0)
		})

		Convey("When only fast-system sessions exist", func() {
			So(s.AppendActivity(ctx, model.ActivityRecord{
				ID: "s1-only", UserID: "u3", Timestamp: ts(21, 9),
				Kind: types.KindGameSession, System: types.SystemS1,
			}), ShouldBeNil)
			days, err := q.DaysInactive(ctx, "u3", now)

			Convey("Then the clock counts from the earliest record", func() {
				So(err, ShouldBeNil)
				So(days, ShouldEqual, 5)
			})
		})
	})
}
