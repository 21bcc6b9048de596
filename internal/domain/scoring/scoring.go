// Package scoring computes the composite cognitive indices from raw skill
// values and windowed activity aggregates. Every function here is pure and
// deterministic: no I/O, no clock reads, no error returns for missing data.
// Each score has a documented neutral fallback instead.
package scoring

import (
	"math"
	"time"

	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/types"
	"github.com/okian/cognigate/internal/domain/window"
)

// Composite index weights. Business constants, not user-configurable.
const (
	networkPerformanceWeight = 0.50
	networkEngagementWeight  = 0.30
	networkRecoveryWeight    = 0.20

	rqCoreWeight        = 0.50
	rqConsistencyWeight = 0.30
	rqPrimingWeight     = 0.20
)

// Consistency constants.
const (
	// MinConsistencySamples is the minimum S2 score history needed before a
	// real consistency value is computed; below it the neutral constant wins.
	MinConsistencySamples = 5
	// NeutralConsistency is returned when history is too short.
	NeutralConsistency = 50.0
	// StddevNormalizationFactor maps a standard deviation over [0,100] scores
	// onto the 0-100 penalty scale: a stddev of 50 (the maximum possible)
	// zeroes consistency.
	StddevNormalizationFactor = 2.0
	// consistencyWindow bounds how many recent S2 scores feed the stddev.
	consistencyWindow = 10
)

// Task-priming constants.
const (
	// Per-type priming weights.
	PrimingWeightPodcast = 12.0
	PrimingWeightArticle = 15.0
	PrimingWeightBook    = 20.0

	// Recency decay: full weight on the day of completion, linear down to a
	// floor at the edge of the 7-day window.
	primingDecayPerDay = 0.1
	primingDecayFloor  = 0.3

	// PrimingFullCreditItems is how many items in the 7-day window earn full
	// credit; PrimingOverflowFactor discounts everything past that.
	PrimingFullCreditItems = 5
	PrimingOverflowFactor  = 0.5

	// A custom session hour maps to a full priming score.
	customMinutesPerFullScore = 60.0
)

const maxScore = 100.0

// Completion is one content/task completion inside the priming window.
type Completion struct {
	Type        types.ContentType
	CompletedAt time.Time
}

// Inputs gathers everything the aggregator consumes for one evaluation.
// Optional sources are carried as Maybe values and resolved here, at the
// aggregation boundary, never at call sites.
type Inputs struct {
	Skills model.SkillState

	WeeklyGameXP          float64
	WeeklyXPTarget        float64
	WeeklyRecoveryMinutes float64
	RecoveryTargetMins    float64

	// RecentS2Scores is the slow-system game score history, most recent last.
	RecentS2Scores []float64

	// Completions are content/task completions; only those inside the 7-day
	// priming window ending at Now contribute.
	Completions []Completion

	// CustomSessionMinutes is the duration-weighted custom session total for
	// the priming window. Absent means "no custom practice", and priming is
	// then the content term alone rather than a halved blend.
	CustomSessionMinutes types.Maybe[float64]

	// Physio is an optional wearable-derived physiological score in [0,100].
	// When present it is averaged into the recovery factor.
	Physio types.Maybe[float64]

	Now time.Time
}

// Composite is the full output of one aggregation pass.
type Composite struct {
	NetworkIndex         float64
	ReasoningQuality     float64
	CognitivePerformance float64
	BehavioralEngagement float64
	RecoveryFactor       float64
	S2Consistency        float64
	TaskPriming          float64
}

// clamp bounds v to [0,100].
func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}

// CognitivePerformance is the mean of the four base skills plus the derived
// S2 core value.
func CognitivePerformance(s model.SkillState) float64 {
	return clamp((s.AE + s.RA + s.CT + s.IN + s.S2Core()) / 5)
}

// BehavioralEngagement scales weekly game XP against the plan target.
// Zero activity or a non-positive target yields 0, never NaN.
func BehavioralEngagement(weeklyXP, weeklyTarget float64) float64 {
	if weeklyTarget <= 0 || weeklyXP <= 0 {
		return 0
	}
	return clamp(weeklyXP / weeklyTarget * maxScore)
}

// RecoveryFactor scales weekly recovery minutes against the plan target,
// averaging in the physiological score when a wearable supplies one.
func RecoveryFactor(weeklyMinutes, targetMinutes float64, physio types.Maybe[float64]) float64 {
	base := 0.0
	if targetMinutes > 0 && weeklyMinutes > 0 {
		base = clamp(weeklyMinutes / targetMinutes * maxScore)
	}
	if p, ok := physio.Value(); ok {
		return clamp((base + clamp(p)) / 2)
	}
	return base
}

// NetworkIndex combines the three sub-terms; each is clamped independently
// before weighting so one term cannot pollute the composite range.
func NetworkIndex(performance, engagement, recovery float64) float64 {
	return clamp(networkPerformanceWeight*clamp(performance) +
		networkEngagementWeight*clamp(engagement) +
		networkRecoveryWeight*clamp(recovery))
}

// Consistency derives a stability score from the spread of the last ten S2
// game scores. Fewer than MinConsistencySamples yields the neutral constant
// regardless of the values supplied.
func Consistency(scores []float64) float64 {
	if len(scores) < MinConsistencySamples {
		return NeutralConsistency
	}
	if len(scores) > consistencyWindow {
		scores = scores[len(scores)-consistencyWindow:]
	}
	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))
	variance := 0.0
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(scores))
	return clamp(maxScore - StddevNormalizationFactor*math.Sqrt(variance))
}

// primingWeight returns the per-type priming weight; unknown types count as
// custom tasks and carry no content weight.
func primingWeight(t types.ContentType) float64 {
	switch t {
	case types.ContentPodcast:
		return PrimingWeightPodcast
	case types.ContentArticle:
		return PrimingWeightArticle
	case types.ContentBook:
		return PrimingWeightBook
	default:
		return 0
	}
}

// recencyDecay is the linear decay factor for a completion `ageDays` old:
// 1.0 on day zero down to the floor at the window edge.
func recencyDecay(ageDays int) float64 {
	f := 1.0 - primingDecayPerDay*float64(ageDays)
	return math.Max(primingDecayFloor, f)
}

// TaskPriming blends the recency-decayed content term with the
// duration-weighted custom-session term. With no custom minutes recorded the
// content term stands alone.
func TaskPriming(completions []Completion, customMinutes types.Maybe[float64], now time.Time) float64 {
	content := 0.0
	counted := 0
	for _, c := range completions {
		age := window.DaysBetween(c.CompletedAt, now)
		if age < 0 || age > window.PrimingWindowDays {
			continue
		}
		w := primingWeight(c.Type) * recencyDecay(age)
		if w == 0 {
			continue
		}
		counted++
		if counted > PrimingFullCreditItems {
			w *= PrimingOverflowFactor
		}
		content += w
	}
	content = clamp(content)

	minutes, ok := customMinutes.Value()
	if !ok {
		return content
	}
	custom := clamp(minutes / customMinutesPerFullScore * maxScore)
	return clamp((content + custom) / 2)
}

// ReasoningQuality combines the slow-system core with consistency and task
// priming. Each term is clamped before weighting.
func ReasoningQuality(s2Core, consistency, priming float64) float64 {
	return clamp(rqCoreWeight*clamp(s2Core) +
		rqConsistencyWeight*clamp(consistency) +
		rqPrimingWeight*clamp(priming))
}

// Aggregate runs a full scoring pass over one set of inputs.
func Aggregate(in Inputs) Composite {
	c := Composite{
		CognitivePerformance: CognitivePerformance(in.Skills),
		BehavioralEngagement: BehavioralEngagement(in.WeeklyGameXP, in.WeeklyXPTarget),
		RecoveryFactor:       RecoveryFactor(in.WeeklyRecoveryMinutes, in.RecoveryTargetMins, in.Physio),
		S2Consistency:        Consistency(in.RecentS2Scores),
		TaskPriming:          TaskPriming(in.Completions, in.CustomSessionMinutes, in.Now),
	}
	c.NetworkIndex = NetworkIndex(c.CognitivePerformance, c.BehavioralEngagement, c.RecoveryFactor)
	c.ReasoningQuality = ReasoningQuality(in.Skills.S2Core(), c.S2Consistency, c.TaskPriming)
	return c
}
