// Package store is the persistence boundary of the palate engine: one
// profile row per user plus an append-only signal log, both in SQLite.
// Profile writes are whole-row upserts, so the store's guarantee is
// last-write-wins per profile; concurrent aggregations for the same user
// may clobber each other's deltas, which the product tolerates.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/platefeed/palate/internal/profile"
)

// #region errors

// ErrProfileNotFound is returned before a user's first accepted signal.
var ErrProfileNotFound = errors.New("profile not found")

// #endregion errors

// #region schema

// timeLayout is RFC 3339 with fixed-width nanoseconds. Timestamps are stored
// as TEXT and ordered lexicographically, so trailing zeros must not be
// dropped or a whole-second instant would sort after a fractional one.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS palate_profiles (
	user_id              TEXT PRIMARY KEY,
	cuisine_scores       TEXT NOT NULL,
	flavor_scores        TEXT NOT NULL,
	content_pref_scores  TEXT NOT NULL,
	meal_pattern_flags   TEXT NOT NULL,
	dominant_dimension   TEXT NOT NULL,
	persona_id           TEXT NOT NULL,
	last_updated         TEXT NOT NULL,
	signal_count         INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS signal_log (
	entry_id    TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	content_id  TEXT NOT NULL,
	tags        TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signal_log_user_time
	ON signal_log(user_id, created_at);
`

// #endregion schema

// #region store-struct

// Store persists taste profiles and the signal log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// Open opens the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by inspection tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region get-profile

// GetProfile reads one user's profile. Returns ErrProfileNotFound before the
// user's first accepted signal.
func (s *Store) GetProfile(ctx context.Context, userID string) (profile.TasteProfile, error) {
	var (
		p           profile.TasteProfile
		cuisineJSON string
		flavorJSON  string
		contentJSON string
		mealJSON    string
		updatedStr  string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, cuisine_scores, flavor_scores, content_pref_scores,
		        meal_pattern_flags, dominant_dimension, persona_id,
		        last_updated, signal_count
		 FROM palate_profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &cuisineJSON, &flavorJSON, &contentJSON, &mealJSON,
		&p.DominantDimension, &p.PersonaID, &updatedStr, &p.SignalCount)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.TasteProfile{}, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	if err != nil {
		return profile.TasteProfile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}

	if err := json.Unmarshal([]byte(cuisineJSON), &p.CuisineScores); err != nil {
		return profile.TasteProfile{}, fmt.Errorf("unmarshal cuisine scores: %w", err)
	}
	if err := json.Unmarshal([]byte(flavorJSON), &p.FlavorScores); err != nil {
		return profile.TasteProfile{}, fmt.Errorf("unmarshal flavor scores: %w", err)
	}
	if err := json.Unmarshal([]byte(contentJSON), &p.ContentPreferenceScores); err != nil {
		return profile.TasteProfile{}, fmt.Errorf("unmarshal content scores: %w", err)
	}
	if err := json.Unmarshal([]byte(mealJSON), &p.MealPatternFlags); err != nil {
		return profile.TasteProfile{}, fmt.Errorf("unmarshal meal flags: %w", err)
	}
	p.LastUpdated, _ = time.Parse(timeLayout, updatedStr)

	return p, nil
}

// #endregion get-profile

// #region save-profile

// SaveProfile upserts the whole profile row in one statement. The single
// statement keeps readers from observing a torn profile; across concurrent
// writers the last write wins.
func (s *Store) SaveProfile(ctx context.Context, p profile.TasteProfile) error {
	cuisineJSON, err := json.Marshal(p.CuisineScores)
	if err != nil {
		return fmt.Errorf("marshal cuisine scores: %w", err)
	}
	flavorJSON, err := json.Marshal(p.FlavorScores)
	if err != nil {
		return fmt.Errorf("marshal flavor scores: %w", err)
	}
	contentJSON, err := json.Marshal(p.ContentPreferenceScores)
	if err != nil {
		return fmt.Errorf("marshal content scores: %w", err)
	}
	mealJSON, err := json.Marshal(p.MealPatternFlags)
	if err != nil {
		return fmt.Errorf("marshal meal flags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO palate_profiles (user_id, cuisine_scores, flavor_scores,
		        content_pref_scores, meal_pattern_flags, dominant_dimension,
		        persona_id, last_updated, signal_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		        cuisine_scores      = excluded.cuisine_scores,
		        flavor_scores       = excluded.flavor_scores,
		        content_pref_scores = excluded.content_pref_scores,
		        meal_pattern_flags  = excluded.meal_pattern_flags,
		        dominant_dimension  = excluded.dominant_dimension,
		        persona_id          = excluded.persona_id,
		        last_updated        = excluded.last_updated,
		        signal_count        = excluded.signal_count`,
		p.UserID, string(cuisineJSON), string(flavorJSON), string(contentJSON),
		string(mealJSON), p.DominantDimension, p.PersonaID,
		p.LastUpdated.UTC().Format(timeLayout), p.SignalCount,
	)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.UserID, err)
	}
	return nil
}

// #endregion save-profile

// #region list-profiles

// ListProfiles returns up to limit profiles ordered by most recent update.
func (s *Store) ListProfiles(ctx context.Context, limit int) ([]profile.TasteProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM palate_profiles ORDER BY last_updated DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	profiles := make([]profile.TasteProfile, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProfile(ctx, id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// #endregion list-profiles
