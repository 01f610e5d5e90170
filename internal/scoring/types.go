package scoring

// #region config

// Config holds the smoothing parameter for score updates.
type Config struct {
	// Alpha is the exponential-smoothing weight: one update moves a score
	// Alpha of the remaining distance toward the signal weight.
	Alpha float64
}

// DefaultConfig returns the production smoothing policy.
func DefaultConfig() Config {
	return Config{Alpha: 0.15}
}

// #endregion config

// #region result

// Result bundles the outcome of applying one signal to a pair of score maps.
type Result struct {
	CuisineScores map[string]float64
	FlavorScores  map[string]float64

	// DimensionsHit lists every dimension a tag matched, cuisine and flavor,
	// in tag order. Empty when no tag matched any known dimension.
	DimensionsHit []string
}

// #endregion result
