package gating

import (
	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/types"
)

// Decision is the outcome of one game eligibility evaluation. Withheld and
// protection decisions always carry a non-empty reason code.
type Decision struct {
	Status  types.GameStatus
	Reason  types.ReasonCode
	Details string
}

func enabled() Decision {
	return Decision{Status: types.StatusEnabled, Reason: types.ReasonNone}
}

func protection(reason types.ReasonCode) Decision {
	return Decision{Status: types.StatusProtection, Reason: reason, Details: reason.Humanize()}
}

func withheld(reason types.ReasonCode) Decision {
	return Decision{Status: types.StatusWithheld, Reason: reason, Details: reason.Humanize()}
}

// EvaluateGame gates one game class against current metrics, fresh cap
// counts, and the user's plan. Checks run in fixed priority order (caps,
// then plan safety overrides, then metric thresholds) and the first failing
// check supplies the reason code.
func EvaluateGame(class types.GameClass, m Metrics, counts Counts, plan model.Plan) Decision {
	// 1. Hard caps.
	if class == types.GameS1 {
		if counts.DailyS1 >= DailyS1Cap {
			return protection(types.ReasonCapDailyS1)
		}
	} else {
		if counts.DailyS2 >= DailyS2Cap {
			return protection(types.ReasonCapDailyS2)
		}
		if plan.WeeklyS2Cap > 0 && counts.WeeklyS2 >= plan.WeeklyS2Cap {
			return protection(types.ReasonCapWeeklyS2)
		}
		if class == types.GameInsight && plan.WeeklyInsightCap > 0 && counts.WeeklyInsight >= plan.WeeklyInsightCap {
			return protection(types.ReasonCapWeeklyInsight)
		}
	}

	// 2. Plan safety overrides.
	if class != types.GameS1 && plan.MinRecoveryForS2 > 0 && m.S1Buffer < plan.MinRecoveryForS2 {
		return withheld(types.ReasonSuperhumanRecoveryRequired)
	}

	// 3. Metric thresholds for the class.
	th := gameThresholdTable[class]
	if m.S1Buffer < th.minRecovery {
		return withheld(types.ReasonRecoveryTooLow)
	}
	if m.Sharpness < th.minSharpness {
		return withheld(types.ReasonSharpnessTooLow)
	}
	if th.maxSharpness > 0 && m.Sharpness > th.maxSharpness {
		return withheld(types.ReasonSharpnessTooHigh)
	}
	if m.Readiness < th.minReadiness {
		return withheld(types.ReasonReadinessTooLow)
	}
	if th.maxReadiness > 0 && m.Readiness > th.maxReadiness {
		return withheld(types.ReasonReadinessOutOfRange)
	}

	return enabled()
}
