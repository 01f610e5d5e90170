package persona

import "github.com/platefeed/palate/internal/profile"

// #region rules

// Rules is the ordered persona rule list. A profile can satisfy several
// predicates at once; declaration order is the priority ranking that picks
// the one displayed persona.
var Rules = []Rule{
	{
		Persona: Persona{
			ID:          AdventurousExplorer,
			Name:        "Adventurous Explorer",
			Description: "Cooks across the map. Five or more cuisines in heavy rotation and always hunting the next one.",
		},
		Match: func(p profile.TasteProfile) bool {
			n := 0
			for _, d := range profile.CuisineDimensions {
				if p.CuisineScores[d] > 40 {
					n++
				}
			}
			return n >= 5
		},
	},
	{
		Persona: Persona{
			ID:          SpiceHunter,
			Name:        "Spice Hunter",
			Description: "Chases heat first. If it doesn't bite back, it isn't dinner.",
		},
		Match: func(p profile.TasteProfile) bool {
			return p.FlavorScores["spicy"] > 75
		},
	},
	{
		Persona: Persona{
			ID:          GourmetSoul,
			Name:        "Gourmet Soul",
			Description: "Plates like a tasting menu. Technique, presentation, and fine dining above all.",
		},
		Match: func(p profile.TasteProfile) bool {
			return p.CuisineScores["fineDining"] > 65
		},
	},
	{
		Persona: Persona{
			ID:          StreetSoul,
			Name:        "Street Soul",
			Description: "Night markets and food carts. Big umami, no tablecloth.",
		},
		Match: func(p profile.TasteProfile) bool {
			return p.CuisineScores["streetFood"] > 60 && p.FlavorScores["umami"] > 30
		},
	},
	{
		Persona: Persona{
			ID:          ComfortCook,
			Name:        "Comfort Cook",
			Description: "Rich, sweet, and generous portions. Food as a warm blanket.",
		},
		Match: func(p profile.TasteProfile) bool {
			return p.FlavorScores["rich"] > 50 && p.FlavorScores["sweet"] > 35
		},
	},
	{
		Persona: Persona{
			ID:          ZenEater,
			Name:        "Zen Eater",
			Description: "Fresh, light, and balanced. Skips the heat and the sugar rush.",
		},
		Match: func(p profile.TasteProfile) bool {
			return p.FlavorScores["fresh"] > 45 &&
				p.FlavorScores["sweet"] < 20 &&
				p.FlavorScores["spicy"] < 20
		},
	},
}

// #endregion rules

// #region default

// defaultPersona is returned by Describe for unassigned or unknown ids.
var defaultPersona = Persona{
	ID:          Unassigned,
	Name:        "Taste Explorer",
	Description: "Taste profile still forming. Keep cooking, liking, and saving to discover your palate.",
}

// #endregion default
