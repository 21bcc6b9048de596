// Package model contains domain records passed between layers.
package model

import (
	"time"

	"github.com/okian/cognigate/internal/domain/types"
)

// SkillState holds the four base skill scores for a user, each in [0,100].
// Mutated only by completed game sessions and time decay; at most one live
// instance per user, read-modify-write on every scoring session.
type SkillState struct {
	UserID    string    // owning profile
	AE        float64   // attention / focus
	RA        float64   // fast reasoning
	CT        float64   // critical thinking
	IN        float64   // insight / slow reasoning
	UpdatedAt time.Time // last mutation
}

// S2Core is the derived slow-system core value, (CT+IN)/2.
func (s SkillState) S2Core() float64 {
	return (s.CT + s.IN) / 2
}

// ActivityRecord is an immutable event; the append-only source of truth for
// every windowed aggregate. Superseded records are simply additional rows.
type ActivityRecord struct {
	ID          string             // uuid
	UserID      string             // subject
	Timestamp   time.Time          // when the activity completed
	Kind        types.ActivityKind // game / content / recovery
	System      types.SystemType   // fast or slow system
	Skill       string             // skill the session was routed to
	ContentType types.ContentType  // set when Kind is content-completion
	Score       float64            // 0-100
	XP          float64            // xp awarded
	Duration    time.Duration      // session length
}

// Baseline is the per-user reference point captured after the calibration
// window fills. Read by decay, regression, and cognitive-age calculations.
type Baseline struct {
	UserID             string
	BaselineScore      float64 // mean 4-skill composite over the window
	BaselineRQ         float64 // mean reasoning quality over the window
	ChronoAgeAtCapture float64 // chronological age in years at capture
	IsCalibrated       bool
	CapturedAt         time.Time
}

// ComboHash is one row of a game's recent-session signature history, used
// solely by the anti-repetition engine. Append-only, retained for a bounded
// recent window per (user, game).
type ComboHash struct {
	ID           string    // uuid
	UserID       string
	GameName     string
	Hash         string  // canonical signature over all salient parameters
	PrimaryHash  string  // signature over gameplay-primary parameters only
	Difficulty   string
	QualityScore float64
	CreatedAt    time.Time
}
