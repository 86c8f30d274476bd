package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CommandMetric records metadata for a single bot command execution.
type CommandMetric struct {
	Command   string
	UserID    string
	LatencyMS int64
	Success   bool
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m CommandMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_metrics (command, user_id, latency_ms, success, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		m.Command, m.UserID, m.LatencyMS, m.Success, ts)
	if err != nil {
		return fmt.Errorf("failed to record command metric: %w", err)
	}
	return nil
}

// DailyUsage represents command totals for a single day.
type DailyUsage struct {
	Date     string
	Commands int
	Failures int
	AvgMS    float64
}

// GetDailyUsage retrieves usage for the last N days, most recent first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(timestamp) AS day,
		       COUNT(*),
		       SUM(CASE WHEN success THEN 0 ELSE 1 END),
		       AVG(latency_ms)
		FROM command_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var avg sql.NullFloat64
		if err := rows.Scan(&u.Date, &u.Commands, &u.Failures, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		if avg.Valid {
			u.AvgMS = avg.Float64
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily usage: %w", err)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were dropped.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM command_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up command metrics: %w", err)
	}
	return res.RowsAffected()
}
