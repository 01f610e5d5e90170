package persona

import "github.com/platefeed/palate/internal/profile"

// #region id

// ID identifies a taste persona.
type ID string

const (
	AdventurousExplorer ID = "adventurous_explorer"
	SpiceHunter         ID = "spice_hunter"
	GourmetSoul         ID = "gourmet_soul"
	StreetSoul          ID = "street_soul"
	ComfortCook         ID = "comfort_cook"
	ZenEater            ID = "zen_eater"

	// Unassigned is the sentinel for profiles that never matched a rule.
	Unassigned ID = profile.PersonaUnassigned
)

// #endregion id

// #region persona

// Persona is a displayable taste archetype.
type Persona struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// #endregion persona

// #region rule

// Rule pairs a persona with its threshold predicate over a profile's score
// maps. Rules are evaluated strictly in declaration order; the first match
// wins, so the list is authored most-specific to most-general.
type Rule struct {
	Persona
	Match func(p profile.TasteProfile) bool
}

// #endregion rule
