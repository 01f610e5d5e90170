package aggregator

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/platefeed/palate/internal/profile"
	"github.com/platefeed/palate/internal/signal"
	"github.com/platefeed/palate/internal/store"
)

// #region fakes

type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]profile.TasteProfile
	saveErr  error
	getErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[string]profile.TasteProfile)}
}

func (f *fakeStore) GetProfile(_ context.Context, userID string) (profile.TasteProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return profile.TasteProfile{}, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return profile.TasteProfile{}, store.ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (f *fakeStore) SaveProfile(_ context.Context, p profile.TasteProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.profiles[p.UserID] = p.Clone()
	return nil
}

type fakeLog struct {
	mu      sync.Mutex
	entries []signal.Signal
	err     error
}

func (f *fakeLog) AppendSignal(_ context.Context, _ string, sig signal.Signal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, sig)
	return "entry-1", nil
}

func (f *fakeLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func newAggregator(st *fakeStore, lg *fakeLog) *Aggregator {
	return New(st, lg, DefaultConfig(), zerolog.Nop())
}

// #endregion fakes

func TestLikeSignalOnFreshProfile(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{}
	a := newAggregator(st, lg)

	res, err := a.RecordSignal(context.Background(), "user-1", signal.KindLike, "post-1", []string{"Spicy", "Turkish"})
	if err != nil {
		t.Fatalf("RecordSignal: %v", err)
	}
	a.Close()

	if !res.Created {
		t.Fatal("expected lazy profile creation")
	}
	if got := res.Profile.FlavorScores["spicy"]; math.Abs(got-2.25) > 1e-9 {
		t.Fatalf("spicy = %f, want 2.25", got)
	}
	if got := res.Profile.CuisineScores["turkish"]; math.Abs(got-2.25) > 1e-9 {
		t.Fatalf("turkish = %f, want 2.25", got)
	}
	if res.Profile.SignalCount != 1 {
		t.Fatalf("signal count = %d, want 1", res.Profile.SignalCount)
	}
	// Tie at 2.25: spicy is declared before turkish in the union scan.
	if res.Profile.DominantDimension != "Spicy" {
		t.Fatalf("dominant = %s, want Spicy", res.Profile.DominantDimension)
	}
	// Below the persona gate.
	if res.Profile.PersonaID != profile.PersonaUnassigned {
		t.Fatalf("persona = %s, want unassigned", res.Profile.PersonaID)
	}
	if lg.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", lg.count())
	}
	if lg.entries[0].Tags[0] != "spicy" {
		t.Fatalf("audit tags not normalized: %v", lg.entries[0].Tags)
	}
}

func TestUnknownKindRejectedBeforeMutation(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{}
	a := newAggregator(st, lg)

	_, err := a.RecordSignal(context.Background(), "user-1", signal.Kind("teleported"), "post-1", nil)
	if !errors.Is(err, signal.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	a.Close()

	if len(st.profiles) != 0 {
		t.Fatal("profile must not be created for a rejected signal")
	}
	if lg.count() != 0 {
		t.Fatal("rejected signal must not reach the audit log")
	}
}

func TestUnmatchedTagsStillCountSignal(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{}
	a := newAggregator(st, lg)
	ctx := context.Background()

	res, err := a.RecordSignal(ctx, "user-1", signal.KindShare, "post-1", []string{"galactic"})
	if err != nil {
		t.Fatalf("RecordSignal: %v", err)
	}
	a.Close()

	if len(res.DimensionsHit) != 0 {
		t.Fatalf("expected no dimensions hit, got %v", res.DimensionsHit)
	}
	if res.Profile.SignalCount != 1 {
		t.Fatalf("signal count = %d, want 1", res.Profile.SignalCount)
	}
	if res.Profile.LastUpdated.IsZero() {
		t.Fatal("lastUpdated must be set")
	}
	for d, s := range res.Profile.CuisineScores {
		if s != 0 {
			t.Fatalf("cuisine %s moved to %f on unmatched tag", d, s)
		}
	}
	if res.Profile.DominantDimension != profile.DominantUndiscovered {
		t.Fatalf("dominant = %s, want %s", res.Profile.DominantDimension, profile.DominantUndiscovered)
	}
}

func TestCamelCaseTagReachesDimension(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{}
	a := newAggregator(st, lg)
	ctx := context.Background()

	// Five saves tagged fineDining: the tag is lowercased on intake but must
	// still land on the camelCase dimension, converging as 25*(1-0.85^5).
	var last Result
	var err error
	for i := 0; i < 5; i++ {
		last, err = a.RecordSignal(ctx, "user-1", signal.KindSave, "post-1", []string{"fineDining"})
		if err != nil {
			t.Fatalf("RecordSignal %d: %v", i, err)
		}
	}
	a.Close()

	want := 25 * (1 - math.Pow(0.85, 5))
	if got := last.Profile.CuisineScores["fineDining"]; math.Abs(got-want) > 1e-6 {
		t.Fatalf("fineDining = %f, want %f", got, want)
	}
	if len(last.DimensionsHit) != 1 || last.DimensionsHit[0] != "fineDining" {
		t.Fatalf("expected canonical hit [fineDining], got %v", last.DimensionsHit)
	}
	if _, ok := last.Profile.CuisineScores["finedining"]; ok {
		t.Fatal("lowercase alias must not leak into the score map")
	}
	if last.Profile.DominantDimension != "FineDining" {
		t.Fatalf("dominant = %s, want FineDining", last.Profile.DominantDimension)
	}
}

func TestPersonaGatingAtFiveSignals(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{}
	a := newAggregator(st, lg)
	ctx := context.Background()

	// Five saves on fineDining: scores stay far below the 65 threshold, so
	// the gate opens at signal 5 but no persona is assigned.
	var last Result
	var err error
	for i := 0; i < 5; i++ {
		last, err = a.RecordSignal(ctx, "user-1", signal.KindSave, "post-1", []string{"fineDining"})
		if err != nil {
			t.Fatalf("RecordSignal %d: %v", i, err)
		}
	}
	a.Close()

	if last.Profile.SignalCount != 5 {
		t.Fatalf("signal count = %d, want 5", last.Profile.SignalCount)
	}
	want := 25 * (1 - math.Pow(0.85, 5))
	if got := last.Profile.CuisineScores["fineDining"]; math.Abs(got-want) > 1e-6 {
		t.Fatalf("fineDining = %f, want %f", got, want)
	}
	if last.Profile.PersonaID != profile.PersonaUnassigned {
		t.Fatalf("persona assigned below threshold: %s", last.Profile.PersonaID)
	}
	if last.PersonaChanged {
		t.Fatal("no persona change expected")
	}
}

func TestPersonaNotEvaluatedBelowGate(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{}
	a := newAggregator(st, lg)
	ctx := context.Background()

	// Plant a profile that would match Spice Hunter immediately, with 3
	// signals absorbed. The 4th signal stays below the gate: persona must
	// not move even though the predicate holds. Seeded high enough that
	// smoothing toward the like weight keeps spicy above 75 throughout.
	p := profile.New("user-1")
	p.FlavorScores["spicy"] = 150
	p.SignalCount = 3
	if err := st.SaveProfile(ctx, p); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := a.RecordSignal(ctx, "user-1", signal.KindLike, "post-1", []string{"spicy"})
	if err != nil {
		t.Fatalf("RecordSignal: %v", err)
	}
	if res.Profile.SignalCount != 4 {
		t.Fatalf("signal count = %d, want 4", res.Profile.SignalCount)
	}
	if res.Profile.PersonaID != profile.PersonaUnassigned {
		t.Fatalf("persona evaluated below gate: %s", res.Profile.PersonaID)
	}

	// The 5th signal crosses the gate and assigns.
	res, err = a.RecordSignal(ctx, "user-1", signal.KindLike, "post-1", []string{"spicy"})
	if err != nil {
		t.Fatalf("RecordSignal: %v", err)
	}
	a.Close()

	if res.Profile.PersonaID != "spice_hunter" {
		t.Fatalf("persona = %s, want spice_hunter", res.Profile.PersonaID)
	}
	if !res.PersonaChanged {
		t.Fatal("expected persona change")
	}

	// A further matching signal keeps the same persona without a write flag.
	res, err = a.RecordSignal(ctx, "user-1", signal.KindLike, "post-1", []string{"spicy"})
	if err != nil {
		t.Fatalf("RecordSignal: %v", err)
	}
	a.Close()
	if res.PersonaChanged {
		t.Fatal("unchanged persona must not be rewritten")
	}
}

func TestPersonaKeptWhenNoRuleMatches(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{}
	a := newAggregator(st, lg)
	ctx := context.Background()

	// An assigned persona whose predicate no longer holds is kept: no match
	// means no change, not a reset.
	p := profile.New("user-1")
	p.PersonaID = "spice_hunter"
	p.FlavorScores["spicy"] = 10
	p.SignalCount = 20
	if err := st.SaveProfile(ctx, p); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := a.RecordSignal(ctx, "user-1", signal.KindBriefView, "post-1", []string{"sweet"})
	if err != nil {
		t.Fatalf("RecordSignal: %v", err)
	}
	a.Close()

	if res.Profile.PersonaID != "spice_hunter" {
		t.Fatalf("persona cleared to %s", res.Profile.PersonaID)
	}
}

func TestSaveFailureStillAppendsAudit(t *testing.T) {
	st := newFakeStore()
	st.saveErr = errors.New("store unavailable")
	lg := &fakeLog{}
	a := newAggregator(st, lg)

	_, err := a.RecordSignal(context.Background(), "user-1", signal.KindLike, "post-1", []string{"spicy"})
	if err == nil {
		t.Fatal("expected save failure to surface")
	}
	a.Close()

	// Asymmetric commit: the audit entry lands even though the profile
	// write failed.
	if lg.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", lg.count())
	}
}

func TestLogAppendFailureIsSwallowed(t *testing.T) {
	st := newFakeStore()
	lg := &fakeLog{err: errors.New("log unavailable")}
	a := newAggregator(st, lg)

	res, err := a.RecordSignal(context.Background(), "user-1", signal.KindSave, "post-1", []string{"umami"})
	if err != nil {
		t.Fatalf("append failure must not fail aggregation: %v", err)
	}
	a.Close()

	if res.Profile.SignalCount != 1 {
		t.Fatalf("signal count = %d, want 1", res.Profile.SignalCount)
	}
}

func TestPersonaDescriptionFallback(t *testing.T) {
	a := newAggregator(newFakeStore(), &fakeLog{})
	got := a.PersonaDescription("nonsense")
	if got.ID != "unassigned" {
		t.Fatalf("expected default persona, got %s", got.ID)
	}
	if a.PersonaDescription("gourmet_soul").Name != "Gourmet Soul" {
		t.Fatal("known persona must resolve")
	}
}
