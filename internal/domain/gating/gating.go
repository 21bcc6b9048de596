// Package gating evaluates game and content eligibility: global modes,
// hard daily/weekly caps, plan safety overrides, and per-tier metric
// thresholds. Evaluation is a pure function of (metrics, counts, plan):
// identical inputs always produce identical decisions and reason codes.
package gating

import "github.com/okian/cognigate/internal/domain/types"

// Mode band edges.
const (
	// RecoveryModeBelow: an s1Buffer under this forces recovery mode.
	RecoveryModeBelow = 45.0
	// LowBandwidthBelow: an s2Capacity under this forces low-bandwidth mode
	// (unless already in recovery mode).
	LowBandwidthBelow = 55.0

	capacitySharpnessWeight = 0.6
	capacityReadinessWeight = 0.4
)

// Hard session caps. Fixed business constants; weekly caps come from the plan.
const (
	DailyS1Cap = 3
	DailyS2Cap = 1
)

// Anti-catalog content limits.
const (
	DailyReadingCap = 1
	WeeklyBookCap   = 3
)

// Metrics are the aggregate indices a gate evaluation runs on.
type Metrics struct {
	S1Buffer  float64 // recovery score
	Sharpness float64
	Readiness float64
}

// Capacity is the slow-system capacity index, 0.6*sharpness + 0.4*readiness.
func (m Metrics) Capacity() float64 {
	return capacitySharpnessWeight*m.Sharpness + capacityReadinessWeight*m.Readiness
}

// ModeFor derives the coarse global gating state.
func ModeFor(m Metrics) types.Mode {
	if m.S1Buffer < RecoveryModeBelow {
		return types.ModeRecovery
	}
	if m.Capacity() < LowBandwidthBelow {
		return types.ModeLowBandwidth
	}
	return types.ModeFullCapacity
}

// Counts are rolling-window activity counters. They are always recomputed
// from raw activity records at decision time, never read from a cached
// counter that can drift (see QuotaService).
type Counts struct {
	DailyS1       int
	DailyS2       int
	WeeklyS2      int
	WeeklyInsight int
	ReadingsToday int
	BooksThisWeek int
}
