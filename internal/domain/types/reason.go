package types

// ReasonCode explains a withheld, protected, or non-suggested decision.
// Gating logic emits codes; UI copy comes from Humanize so the two can be
// tested independently.
type ReasonCode string

// Reason codes. Every withheld or protection decision carries exactly one.
const (
	ReasonNone ReasonCode = ""

	// Metric threshold failures.
	ReasonRecoveryTooLow      ReasonCode = "recovery-too-low"
	ReasonSharpnessTooLow     ReasonCode = "sharpness-too-low"
	ReasonSharpnessTooHigh    ReasonCode = "sharpness-too-high"
	ReasonReadinessTooLow     ReasonCode = "readiness-too-low"
	ReasonReadinessOutOfRange ReasonCode = "readiness-out-of-range"

	// Hard caps.
	ReasonCapDailyS1       ReasonCode = "cap-reached-daily-s1"
	ReasonCapDailyS2       ReasonCode = "cap-reached-daily-s2"
	ReasonCapWeeklyS2      ReasonCode = "cap-reached-weekly-s2"
	ReasonCapWeeklyInsight ReasonCode = "cap-reached-weekly-insight"

	// Plan safety overrides.
	ReasonSuperhumanRecoveryRequired ReasonCode = "superhuman-recovery-required"

	// Content-only codes. Content is never hard-blocked; these explain why an
	// item is not suggested today.
	ReasonDemandTooHigh   ReasonCode = "demand-too-high"
	ReasonCapDailyReading ReasonCode = "cap-reached-daily-reading"
	ReasonCapWeeklyBook   ReasonCode = "cap-reached-weekly-book"
)

// Humanize renders a reason code as user-facing copy. A withheld decision is
// never surfaced as a bare "disabled".
func (r ReasonCode) Humanize() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonRecoveryTooLow:
		return "your recovery buffer is too low right now"
	case ReasonSharpnessTooLow:
		return "mental sharpness is below the level this needs"
	case ReasonSharpnessTooHigh:
		return "sharpness is above the range this session targets"
	case ReasonReadinessTooLow:
		return "readiness is too low for this session"
	case ReasonReadinessOutOfRange:
		return "readiness is outside the range this session targets"
	case ReasonCapDailyS1:
		return "you have reached today's fast-system session limit"
	case ReasonCapDailyS2:
		return "you have reached today's deep-work session limit"
	case ReasonCapWeeklyS2:
		return "you have reached this week's deep-work session limit"
	case ReasonCapWeeklyInsight:
		return "you have reached this week's insight session limit"
	case ReasonSuperhumanRecoveryRequired:
		return "your plan requires a higher recovery score before deep work"
	case ReasonDemandTooHigh:
		return "this item is more demanding than your current state supports"
	case ReasonCapDailyReading:
		return "you have completed today's reading"
	case ReasonCapWeeklyBook:
		return "you have reached this week's book session limit"
	default:
		return string(r)
	}
}
