// Inspect dumps taste profiles and signal-log entries from a palate
// database file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/platefeed/palate/internal/profile"
	"github.com/platefeed/palate/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to palate.db")
	user := flag.String("user", "", "show single user detail")
	last := flag.Int("last", 20, "show N most recently updated profiles")
	signals := flag.Int("signals", 10, "show N most recent log entries in detail mode")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/palate.db [--user id] [--last N] [--signals N] [--json]")
		os.Exit(2)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *user != "" {
		err = runDetailMode(st, *user, *signals, *jsonOut)
	} else {
		err = runListMode(st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	UserID      string `json:"user_id"`
	Dominant    string `json:"dominant_dimension"`
	PersonaID   string `json:"persona_id"`
	SignalCount int64  `json:"signal_count"`
	LastUpdated string `json:"last_updated"`
}

func runListMode(st *store.Store, last int, jsonOut bool) error {
	profiles, err := st.ListProfiles(context.Background(), last)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(os.Stderr, "no profiles found")
		return nil
	}

	rows := make([]listRow, len(profiles))
	for i, p := range profiles {
		rows[i] = listRow{
			UserID:      p.UserID,
			Dominant:    p.DominantDimension,
			PersonaID:   p.PersonaID,
			SignalCount: p.SignalCount,
			LastUpdated: p.LastUpdated.Format("2006-01-02 15:04:05"),
		}
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tDOMINANT\tPERSONA\tSIGNALS\tUPDATED")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.UserID, r.Dominant, r.PersonaID, r.SignalCount, r.LastUpdated)
	}
	return w.Flush()
}

// #endregion list-mode

// #region detail-mode

type detailOut struct {
	Profile profile.TasteProfile `json:"profile"`
	Signals []signalRow          `json:"signals"`
}

type signalRow struct {
	EntryID   string   `json:"entry_id"`
	Kind      string   `json:"kind"`
	ContentID string   `json:"content_id"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}

func runDetailMode(st *store.Store, userID string, signalLimit int, jsonOut bool) error {
	ctx := context.Background()

	p, err := st.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	entries, err := st.ListSignals(ctx, userID, 0)
	if err != nil {
		return err
	}
	// ListSignals is oldest-first; detail shows the most recent entries.
	if signalLimit > 0 && len(entries) > signalLimit {
		entries = entries[len(entries)-signalLimit:]
	}

	sigRows := make([]signalRow, len(entries))
	for i, e := range entries {
		sigRows[i] = signalRow{
			EntryID:   e.EntryID,
			Kind:      string(e.Signal.Kind),
			ContentID: e.Signal.ContentID,
			Tags:      e.Signal.Tags,
			CreatedAt: e.Signal.Timestamp.Format("2006-01-02 15:04:05"),
		}
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(detailOut{Profile: p, Signals: sigRows})
	}

	fmt.Printf("user:     %s\n", p.UserID)
	fmt.Printf("dominant: %s\n", p.DominantDimension)
	fmt.Printf("persona:  %s\n", p.PersonaID)
	fmt.Printf("signals:  %d\n", p.SignalCount)
	fmt.Printf("updated:  %s\n\n", p.LastUpdated.Format("2006-01-02 15:04:05"))

	printScores("flavor", p.FlavorScores)
	printScores("cuisine", p.CuisineScores)

	if len(sigRows) > 0 {
		fmt.Println("\nrecent signals:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tCONTENT\tTAGS\tAT")
		for _, r := range sigRows {
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", r.Kind, r.ContentID, r.Tags, r.CreatedAt)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// printScores prints one score map sorted by score, highest first.
func printScores(label string, scores map[string]float64) {
	type kv struct {
		dim   string
		score float64
	}
	rows := make([]kv, 0, len(scores))
	for d, s := range scores {
		rows = append(rows, kv{d, s})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	fmt.Printf("%s scores:\n", label)
	for _, r := range rows {
		fmt.Printf("  %-14s %8.4f\n", r.dim, r.score)
	}
}

// #endregion detail-mode
