// Package scoring implements the exponential moving average at the heart of
// the palate engine. Each signal moves every matching dimension a fixed
// fraction of the distance toward the signal's weight, so recent behavior
// dominates while history is never fully discarded. The fixed point of
// repeated application of weight w is w itself.
package scoring

import "strings"

// #region update

// UpdateScore applies one smoothing step: s*(1-alpha) + w*alpha.
// Pure and total; an absent score is a zero score.
func UpdateScore(current, weight, alpha float64) float64 {
	return current*(1-alpha) + weight*alpha
}

// #endregion update

// #region apply

// ApplySignal folds a single signal of the given weight into both score maps.
// Tags match dimension keys case-insensitively, so a lowercased tag still
// reaches camelCase dimensions like "fineDining"; DimensionsHit reports the
// canonical key spelling. A tag that matches a key in the cuisine map and the
// flavor map updates both; a tag matching neither is skipped without error.
// Input maps are not mutated.
func ApplySignal(cuisine, flavor map[string]float64, weight float64, tags []string, cfg Config) Result {
	res := Result{
		CuisineScores: make(map[string]float64, len(cuisine)),
		FlavorScores:  make(map[string]float64, len(flavor)),
	}
	for k, v := range cuisine {
		res.CuisineScores[k] = v
	}
	for k, v := range flavor {
		res.FlavorScores[k] = v
	}

	cuisineByFold := foldIndex(res.CuisineScores)
	flavorByFold := foldIndex(res.FlavorScores)

	for _, tag := range tags {
		fold := strings.ToLower(tag)
		if dim, ok := cuisineByFold[fold]; ok {
			res.CuisineScores[dim] = UpdateScore(res.CuisineScores[dim], weight, cfg.Alpha)
			res.DimensionsHit = append(res.DimensionsHit, dim)
		}
		if dim, ok := flavorByFold[fold]; ok {
			res.FlavorScores[dim] = UpdateScore(res.FlavorScores[dim], weight, cfg.Alpha)
			res.DimensionsHit = append(res.DimensionsHit, dim)
		}
	}
	return res
}

// foldIndex maps each key's lowercase form to its canonical spelling.
func foldIndex(m map[string]float64) map[string]string {
	idx := make(map[string]string, len(m))
	for k := range m {
		idx[strings.ToLower(k)] = k
	}
	return idx
}

// #endregion apply
