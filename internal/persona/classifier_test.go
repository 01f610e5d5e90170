package persona

import (
	"testing"

	"github.com/platefeed/palate/internal/profile"
)

func TestClassifyNoMatchOnFreshProfile(t *testing.T) {
	p := profile.New("user-1")
	if id, ok := Classify(p); ok {
		t.Fatalf("fresh profile matched %s", id)
	}
}

func TestClassifyEachRule(t *testing.T) {
	cases := []struct {
		name  string
		setup func(p *profile.TasteProfile)
		want  ID
	}{
		{
			name: "adventurous explorer needs five cuisines above 40",
			setup: func(p *profile.TasteProfile) {
				for _, d := range []string{"turkish", "asian", "italian", "mexican", "indian"} {
					p.CuisineScores[d] = 41
				}
			},
			want: AdventurousExplorer,
		},
		{
			name:  "spice hunter",
			setup: func(p *profile.TasteProfile) { p.FlavorScores["spicy"] = 76 },
			want:  SpiceHunter,
		},
		{
			name:  "gourmet soul",
			setup: func(p *profile.TasteProfile) { p.CuisineScores["fineDining"] = 66 },
			want:  GourmetSoul,
		},
		{
			name: "street soul",
			setup: func(p *profile.TasteProfile) {
				p.CuisineScores["streetFood"] = 61
				p.FlavorScores["umami"] = 31
			},
			want: StreetSoul,
		},
		{
			name: "comfort cook",
			setup: func(p *profile.TasteProfile) {
				p.FlavorScores["rich"] = 51
				p.FlavorScores["sweet"] = 36
			},
			want: ComfortCook,
		},
		{
			name:  "zen eater",
			setup: func(p *profile.TasteProfile) { p.FlavorScores["fresh"] = 46 },
			want:  ZenEater,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := profile.New("user-1")
			tc.setup(&p)
			id, ok := Classify(p)
			if !ok {
				t.Fatal("expected a match")
			}
			if id != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, id)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Satisfy both spice hunter and zen eater's fresh threshold; spice
	// hunter is declared earlier and must win.
	p := profile.New("user-1")
	p.FlavorScores["spicy"] = 90
	p.FlavorScores["fresh"] = 50

	id, ok := Classify(p)
	if !ok || id != SpiceHunter {
		t.Fatalf("expected %s, got %s (ok=%v)", SpiceHunter, id, ok)
	}

	// Boundary values do not match: thresholds are strict.
	p2 := profile.New("user-2")
	p2.FlavorScores["spicy"] = 75
	if id, ok := Classify(p2); ok {
		t.Fatalf("spicy=75 must not match, got %s", id)
	}
}

func TestDescribeFallsBackForUnknownID(t *testing.T) {
	got := Describe(ID("time_traveler"))
	if got.ID != Unassigned {
		t.Fatalf("expected default persona, got %s", got.ID)
	}
	if got.Name == "" || got.Description == "" {
		t.Fatal("default persona must be displayable")
	}

	if Describe(Unassigned).ID != Unassigned {
		t.Fatal("unassigned must resolve to the default persona")
	}

	sh := Describe(SpiceHunter)
	if sh.Name != "Spice Hunter" {
		t.Fatalf("expected Spice Hunter, got %s", sh.Name)
	}
}

func TestCatalogOrderMatchesRules(t *testing.T) {
	cat := Catalog()
	if len(cat) != len(Rules)+1 {
		t.Fatalf("expected %d personas, got %d", len(Rules)+1, len(cat))
	}
	for i, r := range Rules {
		if cat[i].ID != r.ID {
			t.Fatalf("catalog out of rule order at %d: %s", i, cat[i].ID)
		}
	}
	if cat[len(cat)-1].ID != Unassigned {
		t.Fatal("default persona must be last")
	}
}
