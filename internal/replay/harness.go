// Package replay rebuilds a taste profile in memory by folding a user's
// signal-log entries through the same scoring and persona pipeline the
// aggregator runs. Divergence between the rebuilt and stored profile is
// expected under the engine's accepted inconsistencies (lost updates,
// audit entries whose profile write failed); replay makes that divergence
// observable instead of invisible.
package replay

import (
	"fmt"
	"math"

	"github.com/platefeed/palate/internal/aggregator"
	"github.com/platefeed/palate/internal/persona"
	"github.com/platefeed/palate/internal/profile"
	"github.com/platefeed/palate/internal/scoring"
	"github.com/platefeed/palate/internal/signal"
	"github.com/platefeed/palate/internal/store"
)

// #region types

// Result captures the outcome of replaying one logged signal.
type Result struct {
	EntryID       string
	Kind          signal.Kind
	Weight        int
	DimensionsHit []string
	Dominant      string
	PersonaID     string
	SignalCount   int64
	Skipped       bool // entry's kind is no longer in the catalog
}

// Summary aggregates a replay run.
type Summary struct {
	Total   int
	Applied int
	Skipped int
	Rebuilt profile.TasteProfile
}

// #endregion types

// #region replay

// Replay folds logged signals, oldest first, into a fresh profile for the
// user. Entries whose kind has left the catalog are skipped and counted,
// never fatal: the log is immutable history, not current input.
func Replay(userID string, entries []store.LoggedSignal, cfg aggregator.Config) ([]Result, Summary) {
	p := profile.New(userID)
	results := make([]Result, 0, len(entries))
	summary := Summary{Total: len(entries)}

	for _, e := range entries {
		weight, err := signal.WeightOf(e.Signal.Kind)
		if err != nil {
			summary.Skipped++
			results = append(results, Result{EntryID: e.EntryID, Kind: e.Signal.Kind, Skipped: true})
			continue
		}

		applied := scoring.ApplySignal(p.CuisineScores, p.FlavorScores, float64(weight),
			signal.NormalizeTags(e.Signal.Tags), cfg.Smoothing)
		p.CuisineScores = applied.CuisineScores
		p.FlavorScores = applied.FlavorScores
		p.SignalCount++
		p.LastUpdated = e.Signal.Timestamp
		p.DominantDimension = profile.Dominant(p.FlavorScores, p.CuisineScores)

		if p.SignalCount >= cfg.PersonaMinSignals {
			if id, ok := persona.Classify(p); ok && string(id) != p.PersonaID {
				p.PersonaID = string(id)
			}
		}
		summary.Applied++

		results = append(results, Result{
			EntryID:       e.EntryID,
			Kind:          e.Signal.Kind,
			Weight:        weight,
			DimensionsHit: applied.DimensionsHit,
			Dominant:      p.DominantDimension,
			PersonaID:     p.PersonaID,
			SignalCount:   p.SignalCount,
		})
	}

	summary.Rebuilt = p
	return results, summary
}

// #endregion replay

// #region diff

// scoreEpsilon absorbs float drift from serialization round trips.
const scoreEpsilon = 1e-6

// Diff compares a stored profile against a rebuilt one and returns
// human-readable divergences. Empty means the stored profile is exactly what
// the log would produce.
func Diff(stored, rebuilt profile.TasteProfile) []string {
	var out []string

	if stored.SignalCount != rebuilt.SignalCount {
		out = append(out, fmt.Sprintf("signal count: stored %d, rebuilt %d (audit entries without a profile write, or vice versa)",
			stored.SignalCount, rebuilt.SignalCount))
	}
	if stored.DominantDimension != rebuilt.DominantDimension {
		out = append(out, fmt.Sprintf("dominant dimension: stored %s, rebuilt %s",
			stored.DominantDimension, rebuilt.DominantDimension))
	}
	if stored.PersonaID != rebuilt.PersonaID {
		out = append(out, fmt.Sprintf("persona: stored %s, rebuilt %s",
			stored.PersonaID, rebuilt.PersonaID))
	}

	out = append(out, diffScores("cuisine", profile.CuisineDimensions, stored.CuisineScores, rebuilt.CuisineScores)...)
	out = append(out, diffScores("flavor", profile.FlavorDimensions, stored.FlavorScores, rebuilt.FlavorScores)...)
	return out
}

func diffScores(label string, dims []string, stored, rebuilt map[string]float64) []string {
	var out []string
	for _, d := range dims {
		if math.Abs(stored[d]-rebuilt[d]) > scoreEpsilon {
			out = append(out, fmt.Sprintf("%s %s: stored %.4f, rebuilt %.4f", label, d, stored[d], rebuilt[d]))
		}
	}
	return out
}

// #endregion diff
