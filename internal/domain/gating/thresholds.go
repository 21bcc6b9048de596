package gating

import "github.com/okian/cognigate/internal/domain/types"

// gameThresholds is one row of the per-game-class metric threshold table.
// A zero max means "no upper bound".
type gameThresholds struct {
	minRecovery  float64
	minSharpness float64
	maxSharpness float64
	minReadiness float64
	maxReadiness float64
}

// gameThresholdTable maps game classes to their metric cutoffs. Fast-system
// games stay available in low states; slow-system and insight games need
// real capacity and a readiness inside the target band.
var gameThresholdTable = map[types.GameClass]gameThresholds{
	types.GameS1: {
		minRecovery:  30,
		minSharpness: 0,
		minReadiness: 25,
	},
	types.GameS2: {
		minRecovery:  RecoveryModeBelow,
		minSharpness: 50,
		maxSharpness: 95,
		minReadiness: 40,
		maxReadiness: 90,
	},
	types.GameInsight: {
		minRecovery:  50,
		minSharpness: 55,
		maxSharpness: 95,
		minReadiness: 45,
		maxReadiness: 90,
	},
}

// contentThresholds is one row of the per-demand-tier suggestion table.
type contentThresholds struct {
	minS1Buffer  float64
	minCapacity  float64
	minSharpness float64
}

// contentThresholdTable maps demand tiers to suggestion cutoffs. Content is
// never hard-blocked; failing a row only clears the suggested flag.
var contentThresholdTable = map[types.DemandTier]contentThresholds{
	types.DemandLow:      {minS1Buffer: 30, minCapacity: 35, minSharpness: 0},
	types.DemandMedium:   {minS1Buffer: 40, minCapacity: 45, minSharpness: 40},
	types.DemandHigh:     {minS1Buffer: 48, minCapacity: 58, minSharpness: 52},
	types.DemandVeryHigh: {minS1Buffer: 55, minCapacity: 68, minSharpness: 62},
}

// demandPenalty is the fit-score penalty per demand tier.
var demandPenalty = map[types.DemandTier]float64{
	types.DemandLow:      5,
	types.DemandMedium:   12,
	types.DemandHigh:     18,
	types.DemandVeryHigh: 28,
}
