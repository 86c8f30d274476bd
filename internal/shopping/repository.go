package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lorax-tracker/internal/cycle"
)

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores or replaces the user's shopping list for the week.
func (r *Repository) Save(ctx context.Context, list ShoppingList) (int64, error) {
	itemsJSON, err := json.Marshal(list.Sections)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (user_id, week_start, items, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, week_start)
		DO UPDATE SET items = excluded.items, created_at = excluded.created_at`,
		list.UserID, cycle.DateOnly(list.WeekStart), string(itemsJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return res.LastInsertId()
}

// GetByUserAndWeek retrieves a shopping list by user ID and week start
// date, or nil when none exists.
func (r *Repository) GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*ShoppingList, error) {
	var list ShoppingList
	var itemsJSON string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, week_start, items, created_at
		FROM shopping_lists
		WHERE user_id = ? AND week_start = ?`,
		userID, cycle.DateOnly(weekStart),
	).Scan(&list.ID, &list.UserID, &list.WeekStart, &itemsJSON, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list by user and week: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &list.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &list, nil
}

// Delete removes the user's shopping list for the week.
func (r *Repository) Delete(ctx context.Context, userID string, weekStart time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE user_id = ? AND week_start = ?`,
		userID, cycle.DateOnly(weekStart)); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}
