package model

import (
	"math"
	"time"

	"github.com/okian/cognigate/internal/domain/types"
)

// snapshotPrecision is the fixed rounding rule for stored indices: one
// decimal place. Round-tripping a snapshot through JSON must reproduce
// identical values, so everything is rounded before storage.
const snapshotPrecision = 10

// DerivedScoreSnapshot is the once-per-day composite score record for a user.
type DerivedScoreSnapshot struct {
	UserID               string          `json:"user_id"`
	Date                 time.Time       `json:"date"`
	NetworkIndex         float64         `json:"network_index"`
	ReasoningQuality     float64         `json:"reasoning_quality"`
	CognitivePerformance float64         `json:"cognitive_performance"`
	CognitiveAge         float64         `json:"cognitive_age"`
	DecayApplied         bool            `json:"decay_applied"`
	RegressionRisk       types.RiskLevel `json:"regression_risk"`
}

// Round1 rounds v to the snapshot precision of one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*snapshotPrecision) / snapshotPrecision
}

// Rounded returns a copy of the snapshot with every index rounded to the
// fixed snapshot precision.
func (s DerivedScoreSnapshot) Rounded() DerivedScoreSnapshot {
	s.NetworkIndex = Round1(s.NetworkIndex)
	s.ReasoningQuality = Round1(s.ReasoningQuality)
	s.CognitivePerformance = Round1(s.CognitivePerformance)
	s.CognitiveAge = Round1(s.CognitiveAge)
	return s
}
