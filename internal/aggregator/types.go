package aggregator

import (
	"context"
	"time"

	"github.com/platefeed/palate/internal/profile"
	"github.com/platefeed/palate/internal/scoring"
	"github.com/platefeed/palate/internal/signal"
)

// #region config

// Config holds the aggregation policy knobs.
type Config struct {
	// Smoothing is the score-update policy (alpha 0.15 by default).
	Smoothing scoring.Config

	// PersonaMinSignals gates persona classification: no rule is evaluated
	// until a profile has absorbed at least this many signals.
	PersonaMinSignals int64

	// LogAppendTimeout bounds the fire-and-forget signal-log append.
	LogAppendTimeout time.Duration
}

// DefaultConfig returns the production aggregation policy.
func DefaultConfig() Config {
	return Config{
		Smoothing:         scoring.DefaultConfig(),
		PersonaMinSignals: 5,
		LogAppendTimeout:  5 * time.Second,
	}
}

// #endregion config

// #region collaborators

// ProfileStore is the persistence boundary for taste profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (profile.TasteProfile, error)
	SaveProfile(ctx context.Context, p profile.TasteProfile) error
}

// SignalLog is the append-only audit trail. Append failures never affect the
// aggregation result.
type SignalLog interface {
	AppendSignal(ctx context.Context, userID string, sig signal.Signal) (string, error)
}

// #endregion collaborators

// #region result

// Result reports what one accepted signal did to a profile.
type Result struct {
	// Profile is the post-update snapshot as persisted.
	Profile profile.TasteProfile

	// Created reports that this signal lazily initialized the profile.
	Created bool

	// DimensionsHit lists the dimensions the signal's tags matched.
	DimensionsHit []string

	// PersonaChanged reports that this signal flipped the assigned persona.
	PersonaChanged bool
}

// #endregion result
