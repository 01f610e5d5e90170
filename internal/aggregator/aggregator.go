// Package aggregator folds interaction signals into persisted taste
// profiles: weight lookup, exponential smoothing of matching dimensions,
// dominant-dimension derivation, gated persona classification, and the
// audit-log append. It imposes no cross-request serialization; concurrent
// signals for one user race last-write-wins at the store.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/platefeed/palate/internal/persona"
	"github.com/platefeed/palate/internal/profile"
	"github.com/platefeed/palate/internal/scoring"
	"github.com/platefeed/palate/internal/signal"
	"github.com/platefeed/palate/internal/store"
)

// #region aggregator-struct

// Aggregator is the top-level coordinator for signal intake.
type Aggregator struct {
	profiles ProfileStore
	log      SignalLog
	cfg      Config
	logger   zerolog.Logger

	wg sync.WaitGroup // in-flight audit appends
}

// New creates a fully wired aggregator.
func New(profiles ProfileStore, log SignalLog, cfg Config, logger zerolog.Logger) *Aggregator {
	if cfg.PersonaMinSignals <= 0 {
		cfg.PersonaMinSignals = DefaultConfig().PersonaMinSignals
	}
	if cfg.Smoothing.Alpha <= 0 || cfg.Smoothing.Alpha >= 1 {
		cfg.Smoothing = scoring.DefaultConfig()
	}
	if cfg.LogAppendTimeout <= 0 {
		cfg.LogAppendTimeout = DefaultConfig().LogAppendTimeout
	}
	return &Aggregator{
		profiles: profiles,
		log:      log,
		cfg:      cfg,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// Close waits for in-flight audit appends to drain.
func (a *Aggregator) Close() {
	a.wg.Wait()
}

// #endregion aggregator-struct

// #region record-signal

// RecordSignal applies one signal to a user's profile.
//
// An unknown kind rejects the whole operation before any mutation. A profile
// read or write failure aborts the score update; the audit append is still
// attempted, so the log may hold entries with no matching score delta. That
// asymmetry is the accepted trade: the log is an audit trail, not a
// correctness-critical path.
func (a *Aggregator) RecordSignal(ctx context.Context, userID string, kind signal.Kind, contentID string, tags []string) (Result, error) {
	weight, err := signal.WeightOf(kind)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().UTC()
	sig := signal.Signal{
		Kind:      kind,
		ContentID: contentID,
		Tags:      signal.NormalizeTags(tags),
		Timestamp: now,
	}

	// The append must not block on, or be blocked by, the profile write.
	defer a.appendAudit(userID, sig)

	var res Result
	p, err := a.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		p = p.Clone()
	case errors.Is(err, store.ErrProfileNotFound):
		p = profile.New(userID)
		res.Created = true
	default:
		return Result{}, fmt.Errorf("load profile: %w", err)
	}

	applied := scoring.ApplySignal(p.CuisineScores, p.FlavorScores, float64(weight), sig.Tags, a.cfg.Smoothing)
	p.CuisineScores = applied.CuisineScores
	p.FlavorScores = applied.FlavorScores
	res.DimensionsHit = applied.DimensionsHit

	p.SignalCount++
	p.LastUpdated = now
	p.DominantDimension = profile.Dominant(p.FlavorScores, p.CuisineScores)

	if p.SignalCount >= a.cfg.PersonaMinSignals {
		if id, ok := persona.Classify(p); ok && string(id) != p.PersonaID {
			a.logger.Info().
				Str("user_id", userID).
				Str("from", p.PersonaID).
				Str("to", string(id)).
				Msg("persona reassigned")
			p.PersonaID = string(id)
			res.PersonaChanged = true
		}
	}

	if err := a.profiles.SaveProfile(ctx, p); err != nil {
		return Result{}, fmt.Errorf("save profile: %w", err)
	}

	res.Profile = p
	return res, nil
}

// appendAudit writes the raw signal to the log in the background. Failures
// are logged and swallowed.
func (a *Aggregator) appendAudit(userID string, sig signal.Signal) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.LogAppendTimeout)
		defer cancel()
		if _, err := a.log.AppendSignal(ctx, userID, sig); err != nil {
			a.logger.Warn().
				Err(err).
				Str("user_id", userID).
				Str("kind", string(sig.Kind)).
				Msg("signal log append failed")
		}
	}()
}

// #endregion record-signal

// #region persona-description

// PersonaDescription resolves a persona id against the static catalog, with
// the default persona for unknown or unassigned ids.
func (a *Aggregator) PersonaDescription(id string) persona.Persona {
	return persona.Describe(persona.ID(id))
}

// #endregion persona-description
