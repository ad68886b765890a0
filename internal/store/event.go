package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequencer numbers events across both event tables so a generation and
// the backend calls it made sort together. Sequence values come from an
// AUTOINCREMENT key and are never reused, even after the old rows are
// pruned.
type sequencer struct {
	mu sync.Mutex
	db *sql.DB
}

func (s *sequencer) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRowContext(ctx,
		`INSERT INTO event_sequence DEFAULT VALUES RETURNING seq`).Scan(&n); err != nil {
		return 0, fmt.Errorf("allocate sequence: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM event_sequence WHERE seq < ?`, n); err != nil {
		return 0, fmt.Errorf("prune sequence: %w", err)
	}
	return n, nil
}
