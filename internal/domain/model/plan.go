package model

import "github.com/okian/cognigate/internal/domain/types"

// Plan is one row of the static plan configuration table: weekly targets,
// cap overrides, and gating modifiers. Plans are external configuration
// consumed by the core, never computed by it.
type Plan struct {
	ID                    types.PlanID
	WeeklyXPTarget        float64 // behavioral-engagement denominator
	RecoveryTargetMinutes float64 // recovery-factor denominator
	WeeklyS2Cap           int     // slow-system sessions per ISO week
	WeeklyInsightCap      int     // insight sessions per ISO week
	// MinRecoveryForS2, when positive, withholds every slow-system game
	// below this recovery score regardless of other metrics.
	MinRecoveryForS2 float64
}

// DefaultPlans is the shipped plan table.
var DefaultPlans = map[types.PlanID]Plan{
	types.PlanLight: {
		ID:                    types.PlanLight,
		WeeklyXPTarget:        300,
		RecoveryTargetMinutes: 90,
		WeeklyS2Cap:           3,
		WeeklyInsightCap:      2,
	},
	types.PlanExpert: {
		ID:                    types.PlanExpert,
		WeeklyXPTarget:        500,
		RecoveryTargetMinutes: 120,
		WeeklyS2Cap:           5,
		WeeklyInsightCap:      3,
	},
	types.PlanSuperhuman: {
		ID:                    types.PlanSuperhuman,
		WeeklyXPTarget:        800,
		RecoveryTargetMinutes: 180,
		WeeklyS2Cap:           7,
		WeeklyInsightCap:      5,
		MinRecoveryForS2:      60,
	},
}

// PlanByID returns the plan for id, falling back to the expert plan for
// unknown identifiers so gating never runs without cap values.
func PlanByID(id types.PlanID) Plan {
	if p, ok := DefaultPlans[id]; ok {
		return p
	}
	return DefaultPlans[types.PlanExpert]
}
