// Package types contains the closed enumerations shared across the engine.
package types

// Mode is the coarse global gating state derived from the recovery buffer
// and slow-system capacity indices.
type Mode int

// Gating modes, most restrictive first.
const (
	ModeRecovery Mode = iota
	ModeLowBandwidth
	ModeFullCapacity
)

// String returns the canonical name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRecovery:
		return "recovery"
	case ModeLowBandwidth:
		return "low-bandwidth"
	case ModeFullCapacity:
		return "full-capacity"
	default:
		return "unknown"
	}
}

// SystemType tags sessions and games as fast-system (S1) or slow-system (S2).
type SystemType string

// System types.
const (
	SystemS1 SystemType = "s1"
	SystemS2 SystemType = "s2"
)

// ActivityKind classifies an activity record.
type ActivityKind string

// Activity kinds.
const (
	KindGameSession       ActivityKind = "game-session"
	KindContentCompletion ActivityKind = "content-completion"
	KindRecoverySession   ActivityKind = "recovery-session"
)

// ContentType classifies content items and completions.
type ContentType string

// Content types.
const (
	ContentPodcast ContentType = "podcast"
	ContentArticle ContentType = "article"
	ContentBook    ContentType = "book"
	ContentCustom  ContentType = "custom"
)

// GameClass identifies which threshold table and caps apply to a game.
type GameClass string

// Game classes. Insight games are slow-system games with their own weekly cap.
const (
	GameS1      GameClass = "s1"
	GameS2      GameClass = "s2"
	GameInsight GameClass = "insight"
)

// SystemType returns the cognitive system a game class belongs to.
func (g GameClass) SystemType() SystemType {
	if g == GameS1 {
		return SystemS1
	}
	return SystemS2
}

// GameStatus is the outcome of a game eligibility evaluation.
type GameStatus string

// Game statuses. Protection indicates a hard cap, withheld a metric threshold.
const (
	StatusEnabled    GameStatus = "enabled"
	StatusWithheld   GameStatus = "withheld"
	StatusProtection GameStatus = "protection"
)

// DemandTier classifies how cognitively demanding a content item is.
type DemandTier string

// Demand tiers.
const (
	DemandLow      DemandTier = "low"
	DemandMedium   DemandTier = "medium"
	DemandHigh     DemandTier = "high"
	DemandVeryHigh DemandTier = "very-high"
)

// Difficulty is a fast-system game difficulty tier.
type Difficulty string

// Difficulty tiers, easiest first.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RiskLevel classifies a regression streak.
type RiskLevel string

// Regression risk levels.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// AgingPace classifies the 30d/180d performance trend ratio.
type AgingPace string

// Aging paces.
const (
	PaceSlower AgingPace = "aging-slower"
	PaceStable AgingPace = "stable"
	PaceFaster AgingPace = "aging-faster"
)

// PlanID keys the static plan configuration table.
type PlanID string

// Plan identifiers.
const (
	PlanLight      PlanID = "light"
	PlanExpert     PlanID = "expert"
	PlanSuperhuman PlanID = "superhuman"
)
