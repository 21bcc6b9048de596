// Package decay applies time-based decay to reasoning quality and tracks
// regression streaks, cumulative aging penalties, and pace of aging.
//
// Everything here recomputes from raw history: there are no hidden mutable
// counters, so re-evaluating after a missed daily update yields the same
// streak and penalty that continuous evaluation would have produced.
package decay

import (
	"math"
	"sort"
	"time"

	"github.com/okian/cognigate/internal/domain/types"
	"github.com/okian/cognigate/internal/domain/window"
)

// Reasoning-quality decay constants.
const (
	// InactivityGraceDays is how long RQ holds steady with no slow-system
	// game and no content-task activity.
	InactivityGraceDays = 14
	// DecayPerWeek is the RQ loss per whole elapsed week past the grace period.
	DecayPerWeek = 2.0
	// RQFloorOffset floors decayed RQ at S2Core minus this offset.
	RQFloorOffset = 10.0
)

// Regression constants.
const (
	// RegressionThresholdOffset: a day regresses when its 4-skill average is
	// at or below baseline minus this offset.
	RegressionThresholdOffset = 10.0
	// MediumRiskStreakDays and HighRiskStreakDays bound the risk bands.
	MediumRiskStreakDays = 14
	HighRiskStreakDays   = 21
)

// Cumulative penalty and cognitive-age constants. The exact penalty figures
// are business constants; they are named and overridable rather than inlined.
const (
	// RegressionPenaltyPerMonthYears is added for each calendar month that
	// contains at least one high-risk day, at most once per month.
	RegressionPenaltyPerMonthYears = 0.1
	// MaxRegressionPenaltyYears caps the cumulative penalty.
	MaxRegressionPenaltyYears = 2.0
	// AgePointsPerYear converts composite-score delta from the reference
	// point into cognitive-age years.
	AgePointsPerYear = 5.0
	// MaxAgeOffsetYears is the sanity bound on cognitive age relative to
	// chronological age.
	MaxAgeOffsetYears = 15.0
)

// Pace-of-aging band edges on the 30d/180d trend ratio.
const (
	PaceSlowerBelow = 0.9
	PaceFasterAbove = 1.1
)

const daysPerWeek = 7

// DayAverage is one day's 4-skill average.
type DayAverage struct {
	Date    time.Time
	Average float64
}

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithPenaltyPerMonth overrides the monthly regression penalty.
func WithPenaltyPerMonth(years float64) Option {
	return func(t *Tracker) {
		if years >= 0 {
			t.penaltyPerMonth = years
		}
	}
}

// WithPenaltyCap overrides the cumulative penalty cap.
func WithPenaltyCap(years float64) Option {
	return func(t *Tracker) {
		if years >= 0 {
			t.penaltyCap = years
		}
	}
}

// Tracker evaluates decay and regression from raw daily history.
type Tracker struct {
	penaltyPerMonth float64
	penaltyCap      float64
}

// New creates a Tracker with the default business constants.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		penaltyPerMonth: RegressionPenaltyPerMonthYears,
		penaltyCap:      MaxRegressionPenaltyYears,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ApplyRQDecay decays rq for inactivity. Within the grace period rq is
// returned untouched. Past it, RQ loses DecayPerWeek per whole elapsed week,
// floored at max(0, s2Core-RQFloorOffset). The floor recompute also lifts an
// already-below-floor value, so RQ never ends below the floor.
// The second return reports whether any decay applied.
func (t *Tracker) ApplyRQDecay(rq, s2Core float64, daysInactive int) (float64, bool) {
	if daysInactive < InactivityGraceDays {
		return rq, false
	}
	weeks := (daysInactive - InactivityGraceDays) / daysPerWeek
	if weeks == 0 {
		return rq, false
	}
	floor := math.Max(0, s2Core-RQFloorOffset)
	decayed := rq - DecayPerWeek*float64(weeks)
	if decayed < floor {
		decayed = floor
	}
	return decayed, decayed != rq
}

// sortDays returns days in chronological order without mutating the input.
func sortDays(days []DayAverage) []DayAverage {
	sorted := make([]DayAverage, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}

// regressed reports whether one day qualifies as a regression day.
func regressed(avg, baselineScore float64) bool {
	return avg <= baselineScore-RegressionThresholdOffset
}

// Streak recomputes the current regression streak from daily averages:
// +1 per qualifying day, reset to 0 on the first day the average exceeds
// the threshold.
func (t *Tracker) Streak(days []DayAverage, baselineScore float64) (int, types.RiskLevel) {
	streak := 0
	for _, d := range sortDays(days) {
		if regressed(d.Average, baselineScore) {
			streak++
		} else {
			streak = 0
		}
	}
	return streak, Risk(streak)
}

// Risk classifies a streak length.
func Risk(streak int) types.RiskLevel {
	switch {
	case streak >= HighRiskStreakDays:
		return types.RiskHigh
	case streak >= MediumRiskStreakDays:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// PenaltyYears recomputes the cumulative regression penalty from history:
// one increment per calendar month containing at least one high-risk day,
// capped. Monotone over an append-only history.
func (t *Tracker) PenaltyYears(days []DayAverage, baselineScore float64) float64 {
	months := make(map[string]struct{})
	streak := 0
	for _, d := range sortDays(days) {
		if regressed(d.Average, baselineScore) {
			streak++
		} else {
			streak = 0
		}
		if streak >= HighRiskStreakDays {
			months[window.MonthKey(d.Date)] = struct{}{}
		}
	}
	return math.Min(t.penaltyCap, t.penaltyPerMonth*float64(len(months)))
}

// PaceOfAging compares mean performance over the last 30 days against the
// 180-day baseline trend. An empty or zero denominator reports stable.
func (t *Tracker) PaceOfAging(days []DayAverage, now time.Time) (float64, types.AgingPace) {
	shortFrom := window.Start(now, window.TrendWindowDays)
	longFrom := window.Start(now, window.BaselineTrendDays)

	var shortSum, longSum float64
	var shortN, longN int
	for _, d := range days {
		if d.Date.Before(longFrom) || d.Date.After(now) {
			continue
		}
		longSum += d.Average
		longN++
		if !d.Date.Before(shortFrom) {
			shortSum += d.Average
			shortN++
		}
	}
	if shortN == 0 || longN == 0 || longSum == 0 {
		return 1.0, types.PaceStable
	}

	ratio := (shortSum / float64(shortN)) / (longSum / float64(longN))
	switch {
	case ratio < PaceSlowerBelow:
		return ratio, types.PaceSlower
	case ratio > PaceFasterAbove:
		return ratio, types.PaceFaster
	default:
		return ratio, types.PaceStable
	}
}

// CognitiveAge derives the age index from chronological age, the composite's
// delta from the reference point, and the cumulative regression penalty.
// Expressed in years and clamped only by sanity bounds, not [0,100].
func (t *Tracker) CognitiveAge(chronoAge, composite, reference, penaltyYears float64) float64 {
	age := chronoAge - (composite-reference)/AgePointsPerYear + penaltyYears
	lo, hi := chronoAge-MaxAgeOffsetYears, chronoAge+MaxAgeOffsetYears
	return math.Max(lo, math.Min(hi, age))
}
