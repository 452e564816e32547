package engine

// Baseline evaluation weights. Empirically tuned; treat them as a
// starting point for further tuning, not as ground truth.
var (
	defaultEmptyTiles     = 150.0
	defaultMergePotential = 100.0
	defaultCornerBonus    = 250.0
	defaultMonotonicity   = 75.0
	defaultMaxTileValue   = 15.0
)

// DefaultWeights returns a fresh copy of the tuned baseline so callers
// can adjust terms without touching the defaults.
func DefaultWeights() Weights {
	return Weights{
		EmptyTiles:     defaultEmptyTiles,
		MergePotential: defaultMergePotential,
		CornerBonus:    defaultCornerBonus,
		Monotonicity:   defaultMonotonicity,
		MaxTileValue:   defaultMaxTileValue,
	}
}
