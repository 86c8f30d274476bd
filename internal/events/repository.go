package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lorax-tracker/internal/cycle"
)

// Repository persists cycle events. One row per (user, date); logging
// the same day again overwrites the previous observation.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an event repository over an existing connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Put inserts or replaces the event for its (user, date) key.
func (r *Repository) Put(ctx context.Context, e cycle.CycleEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cycle_events (user_id, event_date, state, pain_level, energy_level, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, event_date)
		DO UPDATE SET state = excluded.state,
		              pain_level = excluded.pain_level,
		              energy_level = excluded.energy_level,
		              notes = excluded.notes`,
		e.UserID, cycle.DateOnly(e.Date), string(e.State), e.PainLevel, e.EnergyLevel, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save cycle event: %w", err)
	}
	return nil
}

// PutRange registers the same state for every day in [start, end].
func (r *Repository) PutRange(ctx context.Context, userID string, state cycle.TraditionalPhase, start, end time.Time) (int, error) {
	start, end = cycle.DateOnly(start), cycle.DateOnly(end)
	if end.Before(start) {
		return 0, fmt.Errorf("invalid range: %s is before %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cycle_events (user_id, event_date, state, notes)
			VALUES (?, ?, ?, '')
			ON CONFLICT(user_id, event_date)
			DO UPDATE SET state = excluded.state`,
			userID, d, string(state),
		); err != nil {
			return 0, fmt.Errorf("failed to save event for %s: %w", d.Format("2006-01-02"), err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit event range: %w", err)
	}
	return count, nil
}

// List returns all events for the user, ascending by date.
func (r *Repository) List(ctx context.Context, userID string) ([]cycle.CycleEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, event_date, state, pain_level, energy_level, notes
		FROM cycle_events
		WHERE user_id = ?
		ORDER BY event_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycle events: %w", err)
	}
	defer rows.Close()

	var events []cycle.CycleEvent
	for rows.Next() {
		var e cycle.CycleEvent
		var state string
		if err := rows.Scan(&e.UserID, &e.Date, &state, &e.PainLevel, &e.EnergyLevel, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan cycle event: %w", err)
		}
		e.State = cycle.TraditionalPhase(state)
		e.Date = cycle.DateOnly(e.Date)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cycle events: %w", err)
	}
	return events, nil
}

// Delete removes the event for the given day, if any.
func (r *Repository) Delete(ctx context.Context, userID string, day time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cycle_events WHERE user_id = ? AND event_date = ?`,
		userID, cycle.DateOnly(day)); err != nil {
		return fmt.Errorf("failed to delete cycle event: %w", err)
	}
	return nil
}
