// Package persona assigns one of six taste archetypes to a profile via an
// ordered rule list. Classification is pure: the aggregator decides when to
// evaluate (a minimum signal count) and when a result is worth writing.
package persona

import "github.com/platefeed/palate/internal/profile"

// #region classify

// Classify evaluates the rule list top to bottom and returns the first
// matching persona. The second return is false when nothing matches; callers
// treat that as "no change", never as a reset to Unassigned.
func Classify(p profile.TasteProfile) (ID, bool) {
	for _, r := range Rules {
		if r.Match(p) {
			return r.ID, true
		}
	}
	return "", false
}

// #endregion classify

// #region describe

// Describe looks up the static persona catalog. Unknown and unassigned ids
// resolve to the default persona rather than an error.
func Describe(id ID) Persona {
	for _, r := range Rules {
		if r.ID == id {
			return r.Persona
		}
	}
	return defaultPersona
}

// Catalog returns every persona in rule order, default persona last.
func Catalog() []Persona {
	out := make([]Persona, 0, len(Rules)+1)
	for _, r := range Rules {
		out = append(out, r.Persona)
	}
	return append(out, defaultPersona)
}

// #endregion describe
