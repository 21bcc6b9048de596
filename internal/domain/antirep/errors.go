package antirep

import "errors"

// Sentinel kinds for anti-repetition errors.
var (
	// ErrGenerate wraps a generator failure; duplicate collisions never
	// surface as errors.
	ErrGenerate = errors.New("session generation failed")
)
