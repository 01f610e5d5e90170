package scoring

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestUpdateScoreSingleStep(t *testing.T) {
	// A like (weight 15) on a zero score moves 15% of the way: 2.25.
	got := UpdateScore(0, 15, 0.15)
	if math.Abs(got-2.25) > eps {
		t.Fatalf("expected 2.25, got %f", got)
	}
}

func TestUpdateScoreGeometricConvergence(t *testing.T) {
	cases := []struct {
		name   string
		s0, w  float64
	}{
		{"from zero toward save", 0, 25},
		{"positive toward scroll-past", 40, -3},
		{"above fixed point", 80, 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.s0
			prevDist := math.Abs(tc.s0 - tc.w)
			for n := 1; n <= 50; n++ {
				s = UpdateScore(s, tc.w, 0.15)
				dist := math.Abs(s - tc.w)

				// |s_N - w| = |s0 - w| * 0.85^N, exactly (modulo float error).
				want := math.Abs(tc.s0-tc.w) * math.Pow(0.85, float64(n))
				if math.Abs(dist-want) > 1e-6 {
					t.Fatalf("step %d: distance %g, want %g", n, dist, want)
				}

				// Strictly monotone approach while s0 != w.
				if dist >= prevDist && prevDist > 0 {
					t.Fatalf("step %d: distance %g did not shrink from %g", n, dist, prevDist)
				}
				prevDist = dist
			}
		})
	}
}

func TestUpdateScoreFixedPoint(t *testing.T) {
	got := UpdateScore(15, 15, 0.15)
	if math.Abs(got-15) > eps {
		t.Fatalf("fixed point moved: %f", got)
	}
}

func TestScrollPastNeverOvershootsFixedPoint(t *testing.T) {
	// Repeated scroll-pasts pull a positive score toward -3 but never below.
	s := 20.0
	for i := 0; i < 200; i++ {
		s = UpdateScore(s, -3, 0.15)
		if s < -3 {
			t.Fatalf("score %f overshot the -3 fixed point at step %d", s, i)
		}
	}
	if math.Abs(s-(-3)) > 1e-6 {
		t.Fatalf("expected convergence to -3, got %f", s)
	}
}

func TestApplySignalUpdatesMatchingDimensions(t *testing.T) {
	cuisine := map[string]float64{"turkish": 0, "asian": 10}
	flavor := map[string]float64{"spicy": 0, "sweet": 5}

	res := ApplySignal(cuisine, flavor, 15, []string{"spicy", "turkish"}, DefaultConfig())

	if math.Abs(res.FlavorScores["spicy"]-2.25) > eps {
		t.Fatalf("spicy = %f, want 2.25", res.FlavorScores["spicy"])
	}
	if math.Abs(res.CuisineScores["turkish"]-2.25) > eps {
		t.Fatalf("turkish = %f, want 2.25", res.CuisineScores["turkish"])
	}
	if res.CuisineScores["asian"] != 10 || res.FlavorScores["sweet"] != 5 {
		t.Fatal("unmatched dimensions must not move")
	}
	if len(res.DimensionsHit) != 2 {
		t.Fatalf("expected 2 dimensions hit, got %v", res.DimensionsHit)
	}

	// Inputs are copies, not aliases.
	if cuisine["turkish"] != 0 {
		t.Fatal("ApplySignal mutated its input map")
	}
}

func TestApplySignalCaseFoldedTagMatching(t *testing.T) {
	// Tag normalization lowercases, so the lowercased form of a camelCase
	// dimension key must still hit it, and the hit reports the canonical
	// spelling.
	cuisine := map[string]float64{"fineDining": 0, "streetFood": 0}
	flavor := map[string]float64{"spicy": 0}

	res := ApplySignal(cuisine, flavor, 25, []string{"finedining"}, DefaultConfig())

	if math.Abs(res.CuisineScores["fineDining"]-3.75) > eps {
		t.Fatalf("fineDining = %f, want 3.75", res.CuisineScores["fineDining"])
	}
	if _, ok := res.CuisineScores["finedining"]; ok {
		t.Fatal("lowercase alias must not be introduced as a new dimension")
	}
	if len(res.DimensionsHit) != 1 || res.DimensionsHit[0] != "fineDining" {
		t.Fatalf("expected canonical hit [fineDining], got %v", res.DimensionsHit)
	}
}

func TestApplySignalUnmatchedTagsAreSkipped(t *testing.T) {
	cuisine := map[string]float64{"turkish": 3}
	flavor := map[string]float64{"spicy": 7}

	res := ApplySignal(cuisine, flavor, 50, []string{"galactic", "quantum"}, DefaultConfig())

	if res.CuisineScores["turkish"] != 3 || res.FlavorScores["spicy"] != 7 {
		t.Fatal("unknown tags must leave every score unchanged")
	}
	if len(res.DimensionsHit) != 0 {
		t.Fatalf("expected no dimensions hit, got %v", res.DimensionsHit)
	}
}

func TestApplySignalTagMatchingBothMaps(t *testing.T) {
	// Vocabularies are disjoint by design but the updater does not enforce
	// it: a tag present in both maps updates both.
	cuisine := map[string]float64{"fusion": 0}
	flavor := map[string]float64{"fusion": 0}

	res := ApplySignal(cuisine, flavor, 20, []string{"fusion"}, DefaultConfig())

	if math.Abs(res.CuisineScores["fusion"]-3.0) > eps {
		t.Fatalf("cuisine fusion = %f, want 3.0", res.CuisineScores["fusion"])
	}
	if math.Abs(res.FlavorScores["fusion"]-3.0) > eps {
		t.Fatalf("flavor fusion = %f, want 3.0", res.FlavorScores["fusion"])
	}
	if len(res.DimensionsHit) != 2 {
		t.Fatalf("expected both maps hit, got %v", res.DimensionsHit)
	}
}
