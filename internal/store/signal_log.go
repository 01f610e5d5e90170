package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/platefeed/palate/internal/signal"
)

// #region logged-signal

// LoggedSignal is one row of the append-only signal log.
type LoggedSignal struct {
	EntryID string
	UserID  string
	Signal  signal.Signal
}

// #endregion logged-signal

// #region append

// AppendSignal appends one raw signal to the log and returns the entry id.
// The log is an audit trail: append-only, never read back by aggregation,
// and independent of whether the matching profile write succeeded.
func (s *Store) AppendSignal(ctx context.Context, userID string, sig signal.Signal) (string, error) {
	entryID := uuid.New().String()
	if sig.Timestamp.IsZero() {
		sig.Timestamp = time.Now().UTC()
	}

	tagsJSON, err := json.Marshal(sig.Tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO signal_log (entry_id, user_id, kind, content_id, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entryID, userID, string(sig.Kind), sig.ContentID, string(tagsJSON),
		sig.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("append signal: %w", err)
	}
	return entryID, nil
}

// #endregion append

// #region list

// ListSignals returns a user's logged signals in chronological order, oldest
// first, for replay and inspection. limit <= 0 means no limit.
func (s *Store) ListSignals(ctx context.Context, userID string, limit int) ([]LoggedSignal, error) {
	q := `SELECT entry_id, user_id, kind, content_id, tags, created_at
	      FROM signal_log WHERE user_id = ? ORDER BY created_at ASC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	var out []LoggedSignal
	for rows.Next() {
		var (
			entry      LoggedSignal
			kindStr    string
			tagsJSON   string
			createdStr string
		)
		if err := rows.Scan(&entry.EntryID, &entry.UserID, &kindStr,
			&entry.Signal.ContentID, &tagsJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entry.Signal.Kind = signal.Kind(kindStr)
		if err := json.Unmarshal([]byte(tagsJSON), &entry.Signal.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		entry.Signal.Timestamp, _ = time.Parse(timeLayout, createdStr)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// #endregion list
