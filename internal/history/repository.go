package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// retentionPeriod is how long shown-recipe records are kept. The
// rotation window is shorter; the extra history feeds usage reporting.
const retentionPeriod = 30 * 24 * time.Hour

// Repository tracks which recipes were suggested to which user, backing
// the anti-repetition rotation.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a recipe history repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RecordShown logs that the recipes were shown to the user. A repeat
// within the retention period refreshes the shown time.
func (r *Repository) RecordShown(ctx context.Context, userID string, recipeIDs []string, shownAt time.Time) error {
	if len(recipeIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range recipeIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_history (user_id, recipe_id, shown_at)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id, recipe_id)
			DO UPDATE SET shown_at = excluded.shown_at`,
			userID, id, shownAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to record shown recipe %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe history: %w", err)
	}
	return nil
}

// Recent returns recipe IDs shown to the user since the given time,
// mapped to when they were last shown.
func (r *Repository) Recent(ctx context.Context, userID string, since time.Time) (map[string]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT recipe_id, shown_at FROM recipe_history
		WHERE user_id = ? AND shown_at >= ?`,
		userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe history: %w", err)
	}
	defer rows.Close()

	recent := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var shownAt time.Time
		if err := rows.Scan(&id, &shownAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe history: %w", err)
		}
		recent[id] = shownAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe history: %w", err)
	}
	return recent, nil
}

// PurgeExpired removes records older than the retention period and
// returns how many were dropped.
func (r *Repository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recipe_history WHERE shown_at < ?`,
		time.Now().UTC().Add(-retentionPeriod))
	if err != nil {
		return 0, fmt.Errorf("failed to purge recipe history: %w", err)
	}
	return res.RowsAffected()
}
