package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestS2Core(t *testing.T) {
	Convey("Given a skill state", t, func() {
		s := model.SkillState{CT: 70, IN: 50}

		Convey("Then the slow-system core is the CT/IN mean", func() {
			So(s.S2Core(), ShouldEqual, 60)
		})
	})
}

func TestSnapshotRounding(t *testing.T) {
	Convey("Given a snapshot with raw float indices", t, func() {
		snap := model.DerivedScoreSnapshot{
			UserID:               "u1",
			Date:                 time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			NetworkIndex:         63.14159,
			ReasoningQuality:     58.049,
			CognitivePerformance: 61.25,
			CognitiveAge:         39.96,
			RegressionRisk:       types.RiskLow,
		}

		Convey("When rounded for storage", func() {
			r := snap.Rounded()

			Convey("Then every index holds one decimal place", func() {
				So(r.NetworkIndex, ShouldEqual, 63.1)
				So(r.ReasoningQuality, ShouldEqual, 58.0)
				So(r.CognitivePerformance, ShouldEqual, 61.3)
				So(r.CognitiveAge, ShouldEqual, 40.0)
			})

			Convey("Then a JSON round trip reproduces it exactly", func() {
				raw, err := json.Marshal(r)
				So(err, ShouldBeNil)

				var back model.DerivedScoreSnapshot
				So(json.Unmarshal(raw, &back), ShouldBeNil)
				So(back, ShouldResemble, r)
			})
		})

		Convey("Then rounding is idempotent", func() {
			So(snap.Rounded().Rounded(), ShouldResemble, snap.Rounded())
		})
	})
}

func TestPlans(t *testing.T) {
	Convey("Given the plan catalog", t, func() {
		Convey("Then every plan id resolves to itself", func() {
			for _, id := range []types.PlanID{types.PlanLight, types.PlanExpert, types.PlanSuperhuman} {
				So(model.PlanByID(id).ID, ShouldEqual, id)
			}
		})

		Convey("Then an unknown id falls back to the balanced plan", func() {
			So(model.PlanByID("made-up").ID, ShouldEqual, types.PlanExpert)
		})

		Convey("Then only the most demanding plan carries an extra recovery floor", func() {
			So(model.PlanByID(types.PlanSuperhuman).MinRecoveryForS2, ShouldBeGreaterThan, 0)
			So(model.PlanByID(types.PlanExpert).MinRecoveryForS2, ShouldEqual, 0)
			So(model.PlanByID(types.PlanLight).MinRecoveryForS2, ShouldEqual, 0)
		})
	})
}
