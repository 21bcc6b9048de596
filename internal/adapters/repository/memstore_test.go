package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/cognigate/internal/adapters/repository"
	"github.com/okian/cognigate/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ts(day, hour int) time.Time {
	return time.Date(2026, 8, day, hour, 0, 0, 0, time.UTC)
}

func TestActivityStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewMemStore()

		Convey("When records arrive out of order", func() {
			So(s.AppendActivity(ctx, model.ActivityRecord{ID: "b", UserID: "u1", Timestamp: ts(20, 10)}), ShouldBeNil)
			So(s.AppendActivity(ctx, model.ActivityRecord{ID: "c", UserID: "u1", Timestamp: ts(22, 10)}), ShouldBeNil)
			So(s.AppendActivity(ctx, model.ActivityRecord{ID: "a", UserID: "u1", Timestamp: ts(18, 10)}), ShouldBeNil)

			recs, err := s.ActivitiesBetween(ctx, "u1", ts(1, 0), ts(31, 0))

			Convey("Then reads come back oldest first", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 3)
				So(recs[0].ID, ShouldEqual, "a")
				So(recs[2].ID, ShouldEqual, "c")
			})
		})

		Convey("When the range excludes some records", func() {
			for day := 10; day <= 14; day++ {
				So(s.AppendActivity(ctx, model.ActivityRecord{
					ID: fmt.Sprintf("d%d", day), UserID: "u1", Timestamp: ts(day, 12),
				}), ShouldBeNil)
			}
			recs, err := s.ActivitiesBetween(ctx, "u1", ts(11, 0), ts(13, 23))

			Convey("Then only records inside the closed range return", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 3)
			})
		})

		Convey("Then users never see each other's records", func() {
			So(s.AppendActivity(ctx, model.ActivityRecord{ID: "x", UserID: "u1", Timestamp: ts(20, 10)}), ShouldBeNil)
			recs, err := s.ActivitiesBetween(ctx, "u2", ts(1, 0), ts(31, 0))
			So(err, ShouldBeNil)
			So(recs, ShouldBeEmpty)
		})
	})
}

func TestSkillAndBaselineStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewMemStore()

		Convey("When skills are read before any write", func() {
			_, err := s.Skills(ctx, "u1")
			So(err, ShouldWrap, repository.ErrNotFound)
		})

		Convey("When skills are written and re-read", func() {
			state := model.SkillState{UserID: "u1", AE: 60, RA: 55, CT: 50, IN: 45, UpdatedAt: ts(24, 9)}
			So(s.PutSkills(ctx, state), ShouldBeNil)
			got, err := s.Skills(ctx, "u1")

			Convey("Then the live state round-trips", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, state)
			})
		})

		Convey("When a baseline is read before calibration", func() {
			_, err := s.Baseline(ctx, "u1")
			So(err, ShouldWrap, repository.ErrNotFound)
		})

		Convey("When a baseline is captured", func() {
			b := model.Baseline{UserID: "u1", BaselineScore: 62, BaselineRQ: 58, IsCalibrated: true, CapturedAt: ts(24, 0)}
			So(s.PutBaseline(ctx, b), ShouldBeNil)
			got, err := s.Baseline(ctx, "u1")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, b)
		})
	})
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given daily snapshots", t, func() {
		s := repository.NewMemStore()

		Convey("When the same day is written twice", func() {
			So(s.PutSnapshot(ctx, model.DerivedScoreSnapshot{UserID: "u1", Date: ts(24, 8), NetworkIndex: 50}), ShouldBeNil)
			So(s.PutSnapshot(ctx, model.DerivedScoreSnapshot{UserID: "u1", Date: ts(24, 20), NetworkIndex: 55}), ShouldBeNil)

			snaps, err := s.SnapshotsBetween(ctx, "u1", ts(1, 0), ts(31, 0))

			Convey("Then the later write replaces the earlier one", func() {
				So(err, ShouldBeNil)
				So(snaps, ShouldHaveLength, 1)
				So(snaps[0].NetworkIndex, ShouldEqual, 55)
			})
		})

		Convey("When several days are written", func() {
			for _, day := range []int{22, 20, 24} {
				So(s.PutSnapshot(ctx, model.DerivedScoreSnapshot{UserID: "u1", Date: ts(day, 6)}), ShouldBeNil)
			}
			snaps, err := s.SnapshotsBetween(ctx, "u1", ts(1, 0), ts(31, 0))

			Convey("Then reads come back in date order", func() {
				So(err, ShouldBeNil)
				So(snaps, ShouldHaveLength, 3)
				So(snaps[0].Date.Day(), ShouldEqual, 20)
				So(snaps[2].Date.Day(), ShouldEqual, 24)
			})
		})
	})
}

func TestComboStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store bounded to three combos per game", t, func() {
		s := repository.NewMemStore(repository.WithComboRetention(3))
		for i := 1; i <= 5; i++ {
			So(s.AppendCombo(ctx, model.ComboHash{
				ID: fmt.Sprintf("c%d", i), UserID: "u1", GameName: "pattern-matrix",
				Hash: fmt.Sprintf("h%d", i), CreatedAt: ts(20, i),
			}), ShouldBeNil)
		}

		Convey("When recent combos are read", func() {
			combos, err := s.RecentCombos(ctx, "u1", "pattern-matrix", 10)

			Convey("Then only the retained tail remains, newest first", func() {
				So(err, ShouldBeNil)
				So(combos, ShouldHaveLength, 3)
				So(combos[0].ID, ShouldEqual, "c5")
				So(combos[2].ID, ShouldEqual, "c3")
			})
		})

		Convey("When fewer than the retained count is requested", func() {
			combos, err := s.RecentCombos(ctx, "u1", "pattern-matrix", 2)
			So(err, ShouldBeNil)
			So(combos, ShouldHaveLength, 2)
			So(combos[0].ID, ShouldEqual, "c5")
		})

		Convey("Then history is scoped per game", func() {
			combos, err := s.RecentCombos(ctx, "u1", "word-ladder", 10)
			So(err, ShouldBeNil)
			So(combos, ShouldBeEmpty)
		})
	})
}
