package service

import (
	"context"
	"testing"
	"time"

	"github.com/okian/cognigate/internal/adapters/repository"
	"github.com/okian/cognigate/internal/domain/antirep"
	"github.com/okian/cognigate/internal/domain/gating"
	"github.com/okian/cognigate/internal/domain/types"
	"github.com/okian/cognigate/pkg/logger"
	"github.com/okian/cognigate/pkg/retry"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// stubNow pins the service clock; the returned func restores it.
func stubNow(t time.Time) func() {
	old := now
	now = func() time.Time { return t }
	return func() { now = old }
}

func newTestService(store *repository.MemStore) *Service {
	return New(
		WithStore(store),
		WithWritePolicy(retry.NewPolicy(retry.WithAttempts(2), retry.WithBackoff(0))),
	)
}

func TestRecordGameSession(t *testing.T) {
	ctx := context.Background()
	wed := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	Convey("Given a started service", t, func() {
		restore := stubNow(wed)
		defer restore()
		store := repository.NewMemStore()
		svc := newTestService(store)
		So(svc.Start(ctx), ShouldBeNil)

		session := SessionInput{
			UserID:     "u1",
			ExerciseID: "ex-1",
			Class:      types.GameS1,
			Skill:      "ae",
			Score:      80,
			XP:         20,
			Duration:   5 * time.Minute,
		}

		Convey("When a client retries the same session in the same week", func() {
			So(svc.RecordGameSession(ctx, session), ShouldBeNil)
			So(svc.RecordGameSession(ctx, session), ShouldBeNil)

			recs, err := store.ActivitiesBetween(ctx, "u1", time.Time{}, wed)

			Convey("Then only one record and one XP award exist", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].XP, ShouldEqual, 20)
			})

			Convey("Then the skill was seeded once from the session score", func() {
				skills, err := store.Skills(ctx, "u1")
				So(err, ShouldBeNil)
				So(skills.AE, ShouldEqual, 80)
			})
		})

		Convey("When a second session lands on the same skill", func() {
			So(svc.RecordGameSession(ctx, session), ShouldBeNil)
			second := session
			second.ExerciseID = "ex-2"
			second.Score = 60
			So(svc.RecordGameSession(ctx, second), ShouldBeNil)

			skills, err := store.Skills(ctx, "u1")

			Convey("Then the score folds in under the blend factor", func() {
				So(err, ShouldBeNil)
				// 0.8*80 + 0.2*60
				So(skills.AE, ShouldAlmostEqual, 76, 0.0001)
			})
		})

		Convey("When a session routes to the insight alias", func() {
			in := session
			in.ExerciseID = "ex-3"
			in.Class = types.GameInsight
			in.Skill = "insight"
			in.Score = 55
			So(svc.RecordGameSession(ctx, in), ShouldBeNil)

			skills, err := store.Skills(ctx, "u1")
			So(err, ShouldBeNil)
			So(skills.IN, ShouldEqual, 55)
		})
	})
}

func TestEvaluateGameEndToEnd(t *testing.T) {
	ctx := context.Background()
	wed := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	healthy := gating.Metrics{S1Buffer: 70, Sharpness: 70, Readiness: 70}

	Convey("Given a user who has played three fast-system sessions today", t, func() {
		restore := stubNow(wed)
		defer restore()
		store := repository.NewMemStore()
		svc := newTestService(store)
		So(svc.Start(ctx), ShouldBeNil)

		for i, ex := range []string{"ex-1", "ex-2", "ex-3"} {
			So(svc.RecordGameSession(ctx, SessionInput{
				UserID:      "u1",
				ExerciseID:  ex,
				Class:       types.GameS1,
				Skill:       "ae",
				Score:       70,
				XP:          20,
				CompletedAt: wed.Add(-time.Duration(i+1) * time.Hour),
			}), ShouldBeNil)
		}

		Convey("When a fourth fast-system game is gated", func() {
			d, err := svc.EvaluateGame(ctx, "u1", types.GameS1, types.PlanExpert, healthy)

			Convey("Then the recounted cap flips the gate to protection", func() {
				So(err, ShouldBeNil)
				So(d.Status, ShouldEqual, types.StatusProtection)
				So(d.Reason, ShouldEqual, types.ReasonCapDailyS1)
			})
		})

		Convey("When a slow-system game is gated instead", func() {
			d, err := svc.EvaluateGame(ctx, "u1", types.GameS2, types.PlanExpert, healthy)

			Convey("Then the fast-system cap does not bleed over", func() {
				So(err, ShouldBeNil)
				So(d.Status, ShouldEqual, types.StatusEnabled)
			})
		})
	})

	Convey("Given a user whose insight sessions arrived under the skill alias", t, func() {
		restore := stubNow(wed)
		defer restore()
		store := repository.NewMemStore()
		svc := newTestService(store)
		So(svc.Start(ctx), ShouldBeNil)

		for i, ex := range []string{"in-1", "in-2", "in-3"} {
			So(svc.RecordGameSession(ctx, SessionInput{
				UserID:      "u1",
				ExerciseID:  ex,
				Class:       types.GameInsight,
				Skill:       "in",
				Score:       60,
				XP:          40,
				CompletedAt: wed.Add(-time.Duration(24+i) * time.Hour),
			}), ShouldBeNil)
		}

		Convey("When a fourth insight game is gated", func() {
			d, err := svc.EvaluateGame(ctx, "u1", types.GameInsight, types.PlanExpert, healthy)

			Convey("Then the weekly insight cap counts the aliased sessions", func() {
				So(err, ShouldBeNil)
				So(d.Status, ShouldEqual, types.StatusProtection)
				So(d.Reason, ShouldEqual, types.ReasonCapWeeklyInsight)
			})
		})

		Convey("Then the alias still routed the scores to the insight skill", func() {
			skills, err := store.Skills(ctx, "u1")
			So(err, ShouldBeNil)
			So(skills.IN, ShouldAlmostEqual, 60, 0.0001)
		})
	})
}

func TestComputeDailySnapshot(t *testing.T) {
	ctx := context.Background()
	wed := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	Convey("Given a user with a day of mixed activity", t, func() {
		restore := stubNow(wed)
		defer restore()
		store := repository.NewMemStore()
		svc := newTestService(store)
		So(svc.Start(ctx), ShouldBeNil)

		So(svc.RecordGameSession(ctx, SessionInput{
			UserID: "u1", ExerciseID: "ex-1", Class: types.GameS2,
			Skill: "ct", Score: 70, XP: 50,
		}), ShouldBeNil)
		So(svc.RecordContentCompletion(ctx, "u1", types.ContentArticle, 10*time.Minute, wed.Add(-time.Hour)), ShouldBeNil)
		So(svc.RecordRecoverySession(ctx, "u1", 30*time.Minute, wed.Add(-2*time.Hour)), ShouldBeNil)

		Convey("When the daily snapshot is computed", func() {
			snap, err := svc.ComputeDailySnapshot(ctx, "u1", types.PlanExpert, 40, types.None[float64]())

			Convey("Then the snapshot is derived, rounded, and in range", func() {
				So(err, ShouldBeNil)
				So(snap.UserID, ShouldEqual, "u1")
				So(snap.Date, ShouldEqual, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
				for _, v := range []float64{snap.NetworkIndex, snap.ReasoningQuality, snap.CognitivePerformance} {
					So(v, ShouldBeGreaterThanOrEqualTo, 0)
					So(v, ShouldBeLessThanOrEqualTo, 100)
				}
			})

			Convey("Then an active user sees no decay and low risk", func() {
				So(err, ShouldBeNil)
				So(snap.DecayApplied, ShouldBeFalse)
				So(snap.RegressionRisk, ShouldEqual, types.RiskLow)
			})

			Convey("Then a single day of history reads as stable pace", func() {
				So(err, ShouldBeNil)
				So(snap.PaceRatio, ShouldAlmostEqual, 1.0, 0.0001)
				So(snap.Pace, ShouldEqual, types.PaceStable)
			})

			Convey("Then the snapshot is persisted once per day", func() {
				So(err, ShouldBeNil)
				_, err := svc.ComputeDailySnapshot(ctx, "u1", types.PlanExpert, 40, types.None[float64]())
				So(err, ShouldBeNil)

				snaps, serr := store.SnapshotsBetween(ctx, "u1", time.Time{}, wed)
				So(serr, ShouldBeNil)
				So(snaps, ShouldHaveLength, 1)
			})
		})

		Convey("When a brand-new user is snapshotted", func() {
			snap, err := svc.ComputeDailySnapshot(ctx, "nobody", types.PlanExpert, 30, types.None[float64]())

			Convey("Then zero history never errors or decays", func() {
				So(err, ShouldBeNil)
				So(snap.DecayApplied, ShouldBeFalse)
				So(snap.CognitiveAge, ShouldBeGreaterThanOrEqualTo, 15)
			})
		})
	})
}

func TestGenerateSession(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		store := repository.NewMemStore()
		svc := newTestService(store)
		So(svc.Start(ctx), ShouldBeNil)

		gen := antirep.GeneratorFunc(func(_ context.Context, _ int) (antirep.Candidate, error) {
			return antirep.Candidate{
				GameName:   "pattern-matrix",
				Difficulty: "medium",
				Primary:    map[string]string{"grid": "4x4"},
			}, nil
		})

		Convey("When the identical configuration is generated twice", func() {
			first, err := svc.GenerateSession(ctx, "u1", "pattern-matrix", gen)
			So(err, ShouldBeNil)
			So(first.DuplicatesRejected, ShouldEqual, 0)

			second, err := svc.GenerateSession(ctx, "u1", "pattern-matrix", gen)

			Convey("Then the repeat is detected but the session is still served", func() {
				So(err, ShouldBeNil)
				So(second.FallbackUsed, ShouldBeTrue)
				So(second.DuplicatesRejected, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})

	Convey("Given a service whose default store keeps only one combo", t, func() {
		svc := New(
			WithComboRetention(1),
			WithWritePolicy(retry.NewPolicy(retry.WithAttempts(2), retry.WithBackoff(0))),
		)
		So(svc.Start(ctx), ShouldBeNil)

		genFor := func(grid string) antirep.Generator {
			return antirep.GeneratorFunc(func(_ context.Context, _ int) (antirep.Candidate, error) {
				return antirep.Candidate{
					GameName:   "pattern-matrix",
					Difficulty: "medium",
					Primary:    map[string]string{"grid": grid},
				}, nil
			})
		}

		Convey("When a newer combo pushes the first out of retention", func() {
			_, err := svc.GenerateSession(ctx, "u1", "pattern-matrix", genFor("4x4"))
			So(err, ShouldBeNil)
			_, err = svc.GenerateSession(ctx, "u1", "pattern-matrix", genFor("5x5"))
			So(err, ShouldBeNil)

			again, err := svc.GenerateSession(ctx, "u1", "pattern-matrix", genFor("4x4"))

			Convey("Then the evicted configuration no longer reads as a repeat", func() {
				So(err, ShouldBeNil)
				So(again.FallbackUsed, ShouldBeFalse)
				So(again.DuplicatesRejected, ShouldEqual, 0)
			})
		})
	})
}

func TestPaceOfAgingEmpty(t *testing.T) {
	ctx := context.Background()

	Convey("Given a user with no snapshot history", t, func() {
		svc := newTestService(repository.NewMemStore())
		So(svc.Start(ctx), ShouldBeNil)

		ratio, pace := svc.PaceOfAging(ctx, "nobody")

		Convey("Then the trend is neutral", func() {
			So(ratio, ShouldEqual, 1.0)
			So(pace, ShouldEqual, types.PaceStable)
		})
	})
}
