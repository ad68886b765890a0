package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO generation_events (
		sequence, timestamp_ms, request_id, tier, requested, returned,
		backfilled, dropped, attempts, latency_ms
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, r.now().UnixMilli(), data.RequestID, data.Tier, data.Requested, data.Returned,
		data.Backfilled, data.Dropped, data.Attempts, data.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error) {
	opts.Purpose = "" // generation events have no purpose column
	where, args := opts.where()
	q := `SELECT id, sequence, timestamp_ms, request_id, tier, requested, returned,
		backfilled, dropped, attempts, latency_ms
		FROM generation_events` + where + ` ORDER BY sequence DESC`
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var out []GenerationEvent
	for rows.Next() {
		var e GenerationEvent
		var ts int64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.RequestID, &e.Tier, &e.Requested, &e.Returned,
			&e.Backfilled, &e.Dropped, &e.Attempts, &e.LatencyMs); err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) TierUsage(ctx context.Context) ([]TierUsage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tier, COUNT(*), SUM(backfilled), SUM(dropped),
		CAST(AVG(latency_ms) AS INTEGER)
		FROM generation_events GROUP BY tier ORDER BY COUNT(*) DESC, tier`)
	if err != nil {
		return nil, fmt.Errorf("query tier usage: %w", err)
	}
	defer rows.Close()

	var out []TierUsage
	for rows.Next() {
		var u TierUsage
		if err := rows.Scan(&u.Tier, &u.Calls, &u.Backfilled, &u.Dropped, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan tier usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
