// Package difficulty suggests and hard-locks difficulty tiers for
// fast-system games from load and capacity ratios. Lock rules run first and
// the most restrictive wins; plan-specific suggestion strategies then pick a
// tier, downgrading automatically below any locked tier. The default is
// always easy, a deliberately conservative fall-through.
package difficulty

import (
	"github.com/okian/cognigate/internal/domain/types"
)

// Optimal load window factors over training capacity.
const (
	OptWindowLowFactor  = 0.60
	OptWindowHighFactor = 0.85
)

// Hard lock cutoffs.
const (
	hardLockRecoveryBelow   = 55.0
	hardLockReadinessBelow  = 45.0
	mediumLockRecoveryBelow = 40.0
)

// Lock reasons surfaced with locked options.
const (
	LockReasonRecoveryLow      = "recovery-too-low"
	LockReasonLoadAboveRange   = "weekly-load-above-optimal"
	LockReasonReadinessLow     = "readiness-too-low"
	LockReasonRecoveryCritical = "recovery-critically-low"
	LockReasonLoadOverCapacity = "weekly-load-over-capacity"
)

// Inputs are the metrics one advisory runs on.
type Inputs struct {
	Recovery         float64
	Sharpness        float64
	Readiness        float64
	WeeklyXP         float64
	TrainingCapacity float64
	Plan             types.PlanID
}

// OptimalWindow returns the optimal load window [0.60*TC, 0.85*TC].
func OptimalWindow(trainingCapacity float64) (low, high float64) {
	return OptWindowLowFactor * trainingCapacity, OptWindowHighFactor * trainingCapacity
}

// TierOption reports one tier's availability.
type TierOption struct {
	Difficulty types.Difficulty
	Locked     bool
	LockReason string
}

// Advice is the full advisory output. Recommended is never a locked tier;
// SafetyModeActive is raised whenever medium is locked and only easy remains.
type Advice struct {
	Recommended      types.Difficulty
	Options          []TierOption
	SafetyModeActive bool
}

// strategy maps metrics to a suggested tier for one plan. The branch order
// inside each strategy is load-bearing: hard first, then medium, then the
// conservative easy default.
type strategy func(in Inputs, optMin, optMax float64) types.Difficulty

func inWindow(xp, lo, hi float64) bool {
	return xp >= lo && xp <= hi
}

// balancedStrategy is the expert plan.
func balancedStrategy(in Inputs, optMin, optMax float64) types.Difficulty {
	if in.Recovery >= 70 && inWindow(in.WeeklyXP, optMin, optMax) && in.Sharpness >= 70 {
		return types.DifficultyHard
	}
	if in.Recovery >= 45 && in.Recovery < 70 && inWindow(in.WeeklyXP, optMin, optMax) &&
		in.Sharpness >= 55 && in.Sharpness < 70 {
		return types.DifficultyMedium
	}
	return types.DifficultyEasy
}

// conservativeStrategy is the light plan.
func conservativeStrategy(in Inputs, optMin, optMax float64) types.Difficulty {
	if in.Recovery >= 80 && inWindow(in.WeeklyXP, optMin, optMax) && in.Sharpness >= 75 {
		return types.DifficultyHard
	}
	if in.Recovery >= 55 && in.Recovery < 80 && inWindow(in.WeeklyXP, optMin, optMax) &&
		in.Sharpness >= 60 && in.Sharpness < 75 {
		return types.DifficultyMedium
	}
	return types.DifficultyEasy
}

// aggressiveStrategy is the superhuman plan.
func aggressiveStrategy(in Inputs, optMin, optMax float64) types.Difficulty {
	if in.Recovery >= 60 && in.WeeklyXP <= optMax && in.Sharpness >= 60 {
		return types.DifficultyHard
	}
	if in.Recovery >= 40 && in.Recovery < 60 && in.WeeklyXP <= optMax &&
		in.Sharpness >= 45 && in.Sharpness < 60 {
		return types.DifficultyMedium
	}
	return types.DifficultyEasy
}

// strategies keys the suggestion logic by plan so each plan's behavior stays
// auditable and independently testable. Unknown plans fall back to balanced.
var strategies = map[types.PlanID]strategy{
	types.PlanLight:      conservativeStrategy,
	types.PlanExpert:     balancedStrategy,
	types.PlanSuperhuman: aggressiveStrategy,
}

// locks evaluates the hard lock rules, most restrictive first. A medium lock
// implies a hard lock.
func locks(in Inputs, optMax float64) (hardLocked bool, hardReason string, mediumLocked bool, mediumReason string) {
	switch {
	case in.Recovery < mediumLockRecoveryBelow:
		mediumLocked, mediumReason = true, LockReasonRecoveryCritical
	case in.WeeklyXP > in.TrainingCapacity:
		mediumLocked, mediumReason = true, LockReasonLoadOverCapacity
	}
	if mediumLocked {
		return true, mediumReason, true, mediumReason
	}
	switch {
	case in.Recovery < hardLockRecoveryBelow:
		hardLocked, hardReason = true, LockReasonRecoveryLow
	case in.WeeklyXP > optMax:
		hardLocked, hardReason = true, LockReasonLoadAboveRange
	case in.Readiness < hardLockReadinessBelow:
		hardLocked, hardReason = true, LockReasonReadinessLow
	}
	return hardLocked, hardReason, false, ""
}

// Advise computes the tier advisory for one set of inputs.
func Advise(in Inputs) Advice {
	optMin, optMax := OptimalWindow(in.TrainingCapacity)

	hardLocked, hardReason, mediumLocked, mediumReason := locks(in, optMax)

	pick, ok := strategies[in.Plan]
	if !ok {
		pick = balancedStrategy
	}
	suggested := pick(in, optMin, optMax)

	// Downgrade below any locked tier; easy is never locked.
	if suggested == types.DifficultyHard && hardLocked {
		suggested = types.DifficultyMedium
	}
	if suggested == types.DifficultyMedium && mediumLocked {
		suggested = types.DifficultyEasy
	}

	return Advice{
		Recommended: suggested,
		Options: []TierOption{
			{Difficulty: types.DifficultyEasy},
			{Difficulty: types.DifficultyMedium, Locked: mediumLocked, LockReason: mediumReason},
			{Difficulty: types.DifficultyHard, Locked: hardLocked, LockReason: hardReason},
		},
		SafetyModeActive: mediumLocked,
	}
}
