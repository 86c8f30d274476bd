package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lorax-tracker/internal/recipe"
)

// selectionTTL is how long an unfinished meal selection stays resumable.
const selectionTTL = time.Hour

// SelectionSession tracks a user's progress through the interactive
// meal selection flow: which slot they are choosing and what they have
// picked so far.
type SelectionSession struct {
	UserID    string                     `json:"user_id"`
	WeekStart time.Time                  `json:"week_start"`
	Current   recipe.MealType            `json:"current"`
	Chosen    map[recipe.MealType]string `json:"chosen"`
	UpdatedAt time.Time                  `json:"-"`
}

// NextMeal advances to the next meal slot; ok is false after the last.
func (s *SelectionSession) NextMeal() (recipe.MealType, bool) {
	for i, mt := range recipe.MealTypes {
		if mt == s.Current && i+1 < len(recipe.MealTypes) {
			return recipe.MealTypes[i+1], true
		}
	}
	return "", false
}

// SelectionRepository persists selection sessions, one per user.
type SelectionRepository struct {
	db *sql.DB
}

// NewSelectionRepository creates a selection session repository.
func NewSelectionRepository(db *sql.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// Save stores or replaces the user's session.
func (r *SelectionRepository) Save(ctx context.Context, s SelectionSession) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal selection session: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO selection_sessions (user_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id)
		DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		s.UserID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save selection session: %w", err)
	}
	return nil
}

// Get returns the user's active session, or nil when none exists or
// the last one expired.
func (r *SelectionRepository) Get(ctx context.Context, userID string) (*SelectionSession, error) {
	var payload string
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT state, updated_at FROM selection_sessions WHERE user_id = ?`,
		userID).Scan(&payload, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read selection session: %w", err)
	}
	if time.Since(updatedAt) > selectionTTL {
		return nil, nil
	}

	var s SelectionSession
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection session: %w", err)
	}
	s.UpdatedAt = updatedAt
	return &s, nil
}

// Delete removes the user's session.
func (r *SelectionRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM selection_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete selection session: %w", err)
	}
	return nil
}
