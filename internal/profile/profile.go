package profile

import "unicode"

// #region constructor

// New seeds a fresh profile for a user: every dimension at zero, every flag
// false, sentinels for dominant dimension and persona.
func New(userID string) TasteProfile {
	p := TasteProfile{
		UserID:                  userID,
		CuisineScores:           make(map[string]float64, len(CuisineDimensions)),
		FlavorScores:            make(map[string]float64, len(FlavorDimensions)),
		ContentPreferenceScores: make(map[string]float64, len(ContentPreferenceDimensions)),
		MealPatternFlags:        make(map[string]bool, len(MealSlots)),
		DominantDimension:       DominantUndiscovered,
		PersonaID:               PersonaUnassigned,
	}
	for _, d := range CuisineDimensions {
		p.CuisineScores[d] = 0
	}
	for _, d := range FlavorDimensions {
		p.FlavorScores[d] = 0
	}
	for _, d := range ContentPreferenceDimensions {
		p.ContentPreferenceScores[d] = 0
	}
	for _, s := range MealSlots {
		p.MealPatternFlags[s] = false
	}
	return p
}

// #endregion constructor

// #region clone

// Clone deep-copies a profile so callers can mutate score maps freely.
func (p TasteProfile) Clone() TasteProfile {
	out := p
	out.CuisineScores = copyScores(p.CuisineScores)
	out.FlavorScores = copyScores(p.FlavorScores)
	out.ContentPreferenceScores = copyScores(p.ContentPreferenceScores)
	out.MealPatternFlags = make(map[string]bool, len(p.MealPatternFlags))
	for k, v := range p.MealPatternFlags {
		out.MealPatternFlags[k] = v
	}
	return out
}

func copyScores(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// #endregion clone

// #region dominant

// Dominant scans the union of flavor and cuisine scores for the maximum and
// returns its display name. Ties break to the first-declared dimension
// (flavor vocabulary before cuisine, each in declaration order). Without any
// positive score there is no dominant taste and the sentinel is returned.
func Dominant(flavor, cuisine map[string]float64) string {
	best := ""
	bestScore := 0.0
	for _, d := range FlavorDimensions {
		if s, ok := flavor[d]; ok && (best == "" || s > bestScore) {
			best, bestScore = d, s
		}
	}
	for _, d := range CuisineDimensions {
		if s, ok := cuisine[d]; ok && (best == "" || s > bestScore) {
			best, bestScore = d, s
		}
	}
	if best == "" || bestScore <= 0 {
		return DominantUndiscovered
	}
	return DisplayName(best)
}

// DisplayName capitalizes a dimension key for display: "spicy" -> "Spicy",
// "fineDining" -> "FineDining".
func DisplayName(dim string) string {
	if dim == "" {
		return dim
	}
	r := []rune(dim)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// #endregion dominant
