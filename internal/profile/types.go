package profile

import "time"

// #region sentinels

const (
	// DominantUndiscovered is the dominant-dimension sentinel before any
	// dimension has accumulated a positive score.
	DominantUndiscovered = "Undiscovered"

	// PersonaUnassigned is the persona sentinel for profiles that have not
	// matched any classifier rule yet.
	PersonaUnassigned = "unassigned"
)

// #endregion sentinels

// #region vocabularies

// Declaration order below is load-bearing: the dominant-dimension scan walks
// FlavorDimensions first, then CuisineDimensions, and the first key reaching
// the maximum wins ties.

// FlavorDimensions is the fixed flavor scoring vocabulary.
var FlavorDimensions = []string{
	"spicy", "sweet", "sour", "bitter", "salty", "umami", "rich", "fresh", "smoky",
}

// CuisineDimensions is the fixed cuisine scoring vocabulary.
var CuisineDimensions = []string{
	"turkish", "asian", "italian", "mexican", "indian", "french",
	"mediterranean", "american", "streetFood", "fineDining",
}

// ContentPreferenceDimensions is reserved for future signal types; scores are
// initialized to zero and never touched by tag matching.
var ContentPreferenceDimensions = []string{
	"shortVideo", "longVideo", "photoPost", "textRecipe",
}

// MealSlots is the reserved meal-pattern flag vocabulary.
var MealSlots = []string{
	"breakfast", "lunch", "dinner", "lateNight", "snack",
}

// #endregion vocabularies

// #region taste-profile

// TasteProfile is the per-user persistent aggregate of all signals.
type TasteProfile struct {
	UserID                  string
	CuisineScores           map[string]float64
	FlavorScores            map[string]float64
	ContentPreferenceScores map[string]float64
	MealPatternFlags        map[string]bool
	DominantDimension       string
	PersonaID               string
	LastUpdated             time.Time
	SignalCount             int64
}

// #endregion taste-profile
