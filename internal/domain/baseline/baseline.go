// Package baseline establishes the rolling reference point used as the
// zero-point for cognitive-age and regression calculations.
package baseline

import (
	"sort"
	"time"

	"github.com/okian/cognigate/internal/domain/model"
)

// Calibration constants.
const (
	// CalibrationWindowDays is the history needed before a baseline is final.
	CalibrationWindowDays = 21
	// MinHistoryDays is the minimum history needed to say anything at all.
	MinHistoryDays = 7
	// NeutralReference seeds the live cognitive-age path for users whose
	// baseline has not been calibrated yet; callers must never block on an
	// uncalibrated baseline.
	NeutralReference = 50.0
)

// DailyPoint is one day of derived history feeding calibration.
type DailyPoint struct {
	Date      time.Time
	Composite float64 // 4-skill composite for the day
	RQ        float64 // reasoning quality for the day
}

// Option applies a configuration option to the Calibrator.
type Option func(*Calibrator)

// WithWindowDays overrides the calibration window length.
func WithWindowDays(days int) Option {
	return func(c *Calibrator) {
		if days > 0 {
			c.windowDays = days
		}
	}
}

// WithMinDays overrides the minimum history requirement.
func WithMinDays(days int) Option {
	return func(c *Calibrator) {
		if days > 0 {
			c.minDays = days
		}
	}
}

// Calibrator computes baselines from daily history.
type Calibrator struct {
	windowDays int
	minDays    int
}

// New creates a Calibrator with the default window lengths.
func New(opts ...Option) *Calibrator {
	c := &Calibrator{
		windowDays: CalibrationWindowDays,
		minDays:    MinHistoryDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calibrate derives a baseline from daily history. Fewer than the minimum
// days returns ErrNotEnoughData; callers must not fabricate a baseline.
// Between the minimum and the full window the baseline is provisional
// (IsCalibrated false); once the window fills, the baseline is computed from
// the first windowDays days and marked calibrated.
func (c *Calibrator) Calibrate(userID string, points []DailyPoint, chronoAge float64, now time.Time) (model.Baseline, error) {
	if len(points) < c.minDays {
		return model.Baseline{}, ErrNotEnoughData
	}

	sorted := make([]DailyPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	calibrated := len(sorted) >= c.windowDays
	n := len(sorted)
	if calibrated {
		n = c.windowDays
	}

	var sumComposite, sumRQ float64
	for _, p := range sorted[:n] {
		sumComposite += p.Composite
		sumRQ += p.RQ
	}

	return model.Baseline{
		UserID:             userID,
		BaselineScore:      sumComposite / float64(n),
		BaselineRQ:         sumRQ / float64(n),
		ChronoAgeAtCapture: chronoAge,
		IsCalibrated:       calibrated,
		CapturedAt:         now,
	}, nil
}

// Reference returns the zero-point score consumers should measure against:
// the calibrated baseline score, or the neutral population constant before
// calibration completes.
func Reference(b model.Baseline) float64 {
	if b.IsCalibrated {
		return b.BaselineScore
	}
	return NeutralReference
}
