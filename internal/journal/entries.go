package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one recorded dispatch.
type Entry struct {
	ID         string
	Platform   string
	Invocation []string
	Outcome    string
	Code       int
	StartedAt  time.Time
	Duration   time.Duration
}

// Record stores e, assigning an ID when it has none. It returns the ID.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("record invocation: journal closed")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	_, err := s.exec(ctx,
		`INSERT INTO invocations (id, platform, invocation, outcome, code, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Platform,
		strings.Join(e.Invocation, " "),
		e.Outcome,
		e.Code,
		e.StartedAt.UTC().Format(timeLayout),
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("record invocation: %w", err)
	}
	return e.ID, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, platform, invocation, outcome, code, started_at, duration_ms
		 FROM invocations ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			invocation string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.Platform, &invocation, &e.Outcome, &e.Code, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		if invocation != "" {
			e.Invocation = strings.Split(invocation, " ")
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			e.StartedAt = t
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune keeps the newest keep entries and deletes the rest. It returns the
// number of rows removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.exec(ctx,
		`DELETE FROM invocations WHERE id NOT IN (
			SELECT id FROM invocations ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune invocations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune invocations: %w", err)
	}
	return n, nil
}
