package gating

import (
	"sort"

	"github.com/okian/cognigate/internal/domain/types"
)

// Fit-score constants.
const (
	fitBufferWeight = 0.35
	fitBufferPivot  = 50.0
)

// ContentItem is one candidate content item under evaluation.
type ContentItem struct {
	ID     string
	Type   types.ContentType
	Demand types.DemandTier
}

// ContentDecision marks an item as suggested or not. Content is always
// accessible: Enabled is true on every decision, and Reason only explains a
// cleared suggested flag.
type ContentDecision struct {
	Item      ContentItem
	Enabled   bool
	Suggested bool
	Reason    types.ReasonCode
	Fit       float64
}

// FitScore ranks suggested items: capacity less the tier's demand penalty,
// plus a recovery-buffer adjustment around the 50-point pivot.
func FitScore(m Metrics, tier types.DemandTier) float64 {
	return (m.Capacity() - demandPenalty[tier]) + fitBufferWeight*(m.S1Buffer-fitBufferPivot)
}

// isReading reports whether a completion of this type counts against the
// daily reading limit.
func isReading(t types.ContentType) bool {
	return t == types.ContentArticle || t == types.ContentBook
}

// EvaluateContent decides the suggested flag for one item. Anti-catalog
// limits run first, then the tier threshold row; the first failing check
// supplies the reason.
func EvaluateContent(item ContentItem, m Metrics, counts Counts) ContentDecision {
	d := ContentDecision{
		Item:    item,
		Enabled: true,
		Fit:     FitScore(m, item.Demand),
	}

	if isReading(item.Type) && counts.ReadingsToday >= DailyReadingCap {
		d.Reason = types.ReasonCapDailyReading
		return d
	}
	if item.Type == types.ContentBook && counts.BooksThisWeek >= WeeklyBookCap {
		d.Reason = types.ReasonCapWeeklyBook
		return d
	}

	th := contentThresholdTable[item.Demand]
	if m.S1Buffer < th.minS1Buffer || m.Capacity() < th.minCapacity || m.Sharpness < th.minSharpness {
		d.Reason = types.ReasonDemandTooHigh
		return d
	}

	d.Suggested = true
	return d
}

// RankContent evaluates every candidate and returns all decisions plus the
// suggested subset ordered by descending fit score. Ties break on item ID so
// ranking stays deterministic.
func RankContent(items []ContentItem, m Metrics, counts Counts) (decisions []ContentDecision, ranked []ContentDecision) {
	decisions = make([]ContentDecision, 0, len(items))
	for _, item := range items {
		d := EvaluateContent(item, m, counts)
		decisions = append(decisions, d)
		if d.Suggested {
			ranked = append(ranked, d)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Fit != ranked[j].Fit {
			return ranked[i].Fit > ranked[j].Fit
		}
		return ranked[i].Item.ID < ranked[j].Item.ID
	})
	return decisions, ranked
}
