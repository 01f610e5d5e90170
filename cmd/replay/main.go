// Replay rebuilds one user's taste profile from the signal log and reports
// any divergence from the stored profile. Divergence is expected when
// profile writes were lost or audit appends outlived a failed write; this
// tool makes that drift visible.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/platefeed/palate/internal/aggregator"
	"github.com/platefeed/palate/internal/replay"
	"github.com/platefeed/palate/internal/scoring"
	"github.com/platefeed/palate/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to palate.db")
	user := flag.String("user", "", "user id to replay")
	alpha := flag.Float64("alpha", 0.15, "smoothing alpha to replay with")
	minSignals := flag.Int64("min-signals", 5, "persona gate to replay with")
	verbose := flag.Bool("v", false, "print per-signal results")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" || *user == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/palate.db --user id [--alpha 0.15] [--min-signals 5] [-v] [--json]")
		os.Exit(2)
	}

	if err := run(*dbPath, *user, *alpha, *minSignals, *verbose, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

type report struct {
	User    string          `json:"user"`
	Summary replay.Summary  `json:"summary"`
	Results []replay.Result `json:"results,omitempty"`
	Diffs   []string        `json:"diffs"`
}

func run(dbPath, userID string, alpha float64, minSignals int64, verbose, jsonOut bool) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	entries, err := st.ListSignals(ctx, userID, 0)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no logged signals for user %s", userID)
	}

	cfg := aggregator.Config{
		Smoothing:         scoring.Config{Alpha: alpha},
		PersonaMinSignals: minSignals,
	}
	results, summary := replay.Replay(userID, entries, cfg)

	stored, err := st.GetProfile(ctx, userID)
	var diffs []string
	switch {
	case errors.Is(err, store.ErrProfileNotFound):
		diffs = []string{"no stored profile: every logged signal's profile write was lost"}
	case err != nil:
		return err
	default:
		diffs = replay.Diff(stored, summary.Rebuilt)
	}

	if jsonOut {
		out := report{User: userID, Summary: summary, Diffs: diffs}
		if verbose {
			out.Results = results
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("replayed %d signals for %s (%d applied, %d skipped)\n",
		summary.Total, userID, summary.Applied, summary.Skipped)
	fmt.Printf("rebuilt: dominant=%s persona=%s count=%d\n",
		summary.Rebuilt.DominantDimension, summary.Rebuilt.PersonaID, summary.Rebuilt.SignalCount)

	if verbose {
		for _, r := range results {
			if r.Skipped {
				fmt.Printf("  %s  %-16s SKIPPED (retired kind)\n", r.EntryID, r.Kind)
				continue
			}
			fmt.Printf("  %s  %-16s w=%+d hit=%v dominant=%s\n",
				r.EntryID, r.Kind, r.Weight, r.DimensionsHit, r.Dominant)
		}
	}

	if len(diffs) == 0 {
		fmt.Println("stored profile matches the log exactly")
		return nil
	}
	fmt.Printf("\n%d divergence(s) from stored profile:\n", len(diffs))
	for _, d := range diffs {
		fmt.Printf("  - %s\n", d)
	}
	return nil
}

// #endregion run
