package baseline

import "errors"

// Sentinel kinds for calibration errors.
var (
	// ErrNotEnoughData is returned when history is shorter than the minimum
	// calibration requirement.
	ErrNotEnoughData = errors.New("not enough data to calibrate baseline")
)
