package antirep

import (
	"github.com/okian/cognigate/pkg/logger"
	"github.com/okian/cognigate/pkg/retry"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxAttempts sets the regeneration ceiling.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithRecentWindow sets how many recent combos a candidate is checked against.
func WithRecentWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.recentWindow = n
		}
	}
}

// WithSimilarityRule installs a game-specific near-duplicate rule.
func WithSimilarityRule(gameName string, rule SimilarityRule) Option {
	return func(e *Engine) {
		if gameName != "" && rule != nil {
			e.gameRules[gameName] = rule
		}
	}
}

// WithDefaultSimilarityRule replaces the default near-duplicate rule.
func WithDefaultSimilarityRule(rule SimilarityRule) Option {
	return func(e *Engine) {
		if rule != nil {
			e.defaultRule = rule
		}
	}
}

// WithRecordPolicy sets the retry policy for combo recording.
func WithRecordPolicy(p retry.Policy) Option {
	return func(e *Engine) {
		e.recordPolicy = p
	}
}

// WithLogger sets the engine logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}
