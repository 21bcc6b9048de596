// Package antirep prevents a freshly generated game session from repeating a
// recent configuration. A candidate's salient parameters are canonicalized
// into a stable hash and compared against the most recent combo history for
// that (user, game); exact and near-duplicate matches drive bounded
// regeneration, with a flagged fallback accept once the retry ceiling is hit
// so gameplay is never blocked.
//
// The check runs a small state machine:
//
//	generating -> checking -> accepted
//	                       -> regenerate(++attempts) -> checking
//	                       -> fallback-accepted
//
// accepted and fallback-accepted are the only terminal states.
package antirep

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/pkg/logger"
	"github.com/okian/cognigate/pkg/retry"
)

// Default engine configuration constants.
const (
	// DefaultMaxAttempts is the regeneration ceiling. Generation is CPU-bound
	// and fast, so the bound is attempt-based, not time-based.
	DefaultMaxAttempts = 5
	// DefaultRecentWindow is how many recent combos a candidate is checked
	// against.
	DefaultRecentWindow = 20
)

// Candidate is a generated session under duplicate inspection. Primary holds
// the gameplay-salient parameters; Cosmetic holds presentation-only fields
// that never make two sessions meaningfully different.
type Candidate struct {
	GameName     string
	Difficulty   string
	QualityScore float64
	Primary      map[string]string
	Cosmetic     map[string]string
	Session      any // the generated session payload, opaque to the engine
}

// Result is the outcome of one checked generation.
type Result struct {
	Candidate          Candidate
	Combo              model.ComboHash
	FallbackUsed       bool
	DuplicatesRejected int
}

// Generator produces session candidates. The attempt number starts at 1 and
// lets generators vary their seed per retry.
type Generator interface {
	Generate(ctx context.Context, attempt int) (Candidate, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, attempt int) (Candidate, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, attempt int) (Candidate, error) {
	return f(ctx, attempt)
}

// SimilarityRule decides whether a candidate is a near-duplicate of a prior
// combo even though the full hashes differ.
type SimilarityRule interface {
	NearDuplicate(candidate Candidate, candidatePrimaryHash string, prior model.ComboHash) bool
}

// SimilarityRuleFunc adapts a function to the SimilarityRule interface.
type SimilarityRuleFunc func(candidate Candidate, candidatePrimaryHash string, prior model.ComboHash) bool

// NearDuplicate implements SimilarityRule.
func (f SimilarityRuleFunc) NearDuplicate(c Candidate, primaryHash string, prior model.ComboHash) bool {
	return f(c, primaryHash, prior)
}

// primarySignatureRule is the default near-duplicate rule: same primary
// parameter set, differing only in cosmetic fields.
var primarySignatureRule = SimilarityRuleFunc(func(_ Candidate, primaryHash string, prior model.ComboHash) bool {
	return prior.PrimaryHash != "" && prior.PrimaryHash == primaryHash
})

// History reads the recent combo records for a (user, game).
type History interface {
	RecentCombos(ctx context.Context, userID, gameName string, n int) ([]model.ComboHash, error)
}

// Recorder appends an accepted combo record.
type Recorder interface {
	AppendCombo(ctx context.Context, combo model.ComboHash) error
}

// Engine runs duplicate checks and bounded regeneration.
type Engine struct {
	history      History
	recorder     Recorder
	defaultRule  SimilarityRule
	gameRules    map[string]SimilarityRule
	maxAttempts  int
	recentWindow int
	recordPolicy retry.Policy
	log          logger.Logger
}

// New creates an Engine over a combo history and recorder.
func New(history History, recorder Recorder, opts ...Option) *Engine {
	e := &Engine{
		history:      history,
		recorder:     recorder,
		defaultRule:  primarySignatureRule,
		gameRules:    make(map[string]SimilarityRule),
		maxAttempts:  DefaultMaxAttempts,
		recentWindow: DefaultRecentWindow,
		recordPolicy: retry.NewPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// rule returns the similarity rule for a game.
func (e *Engine) rule(gameName string) SimilarityRule {
	if r, ok := e.gameRules[gameName]; ok {
		return r
	}
	return e.defaultRule
}

// duplicate reports whether the candidate collides with any prior combo,
// either exactly or under the game's near-duplicate rule.
func (e *Engine) duplicate(c Candidate, fullHash, primaryHash string, recent []model.ComboHash) bool {
	rule := e.rule(c.GameName)
	for _, prior := range recent {
		if prior.Hash == fullHash {
			return true
		}
		if rule.NearDuplicate(c, primaryHash, prior) {
			return true
		}
	}
	return false
}

// Generate produces an anti-repetition-checked session for (user, game).
// Candidates colliding with recent history are regenerated up to the attempt
// ceiling; the final candidate is then accepted anyway with FallbackUsed set,
// never looped forever. The accepted combo is recorded best-effort: a record
// failure is logged and retried but never fails the session.
func (e *Engine) Generate(ctx context.Context, userID, gameName string, gen Generator) (Result, error) {
	recent, err := e.history.RecentCombos(ctx, userID, gameName, e.recentWindow)
	if err != nil {
		// Degrade to an empty history rather than blocking gameplay; the
		// worst case is one repeated session.
		if e.log != nil {
			e.log.Warn(ctx, "combo history unavailable; skipping duplicate checks",
				logger.String("game", gameName), logger.Error(err))
		}
		recent = nil
	}

	var (
		candidate   Candidate
		fullHash    string
		primaryHash string
		rejected    int
		fallback    bool
	)

	for attempt := 1; ; attempt++ {
		candidate, err = gen.Generate(ctx, attempt)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrGenerate, err)
		}
		fullHash, primaryHash = candidate.hashes()

		if !e.duplicate(candidate, fullHash, primaryHash, recent) {
			break
		}
		rejected++
		if attempt >= e.maxAttempts {
			fallback = true
			break
		}
	}

	combo := model.ComboHash{
		ID:           uuid.NewString(),
		UserID:       userID,
		GameName:     gameName,
		Hash:         fullHash,
		PrimaryHash:  primaryHash,
		Difficulty:   candidate.Difficulty,
		QualityScore: candidate.QualityScore,
		CreatedAt:    time.Now().UTC(),
	}
	e.record(ctx, combo)

	return Result{
		Candidate:          candidate,
		Combo:              combo,
		FallbackUsed:       fallback,
		DuplicatesRejected: rejected,
	}, nil
}

// record appends the accepted combo with bounded retry, fire-and-forget
// relative to gameplay.
func (e *Engine) record(ctx context.Context, combo model.ComboHash) {
	err := retry.Do(ctx, e.recordPolicy, func(ctx context.Context) error {
		return e.recorder.AppendCombo(ctx, combo)
	})
	if err != nil && e.log != nil {
		e.log.Error(ctx, "failed to record combo hash",
			logger.String("game", combo.GameName), logger.Error(err))
	}
}
