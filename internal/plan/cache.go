package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lorax-tracker/internal/cycle"
)

// cacheTTL is how long a generated plan stays reusable. New events for
// the user invalidate the entry explicitly before the TTL runs out.
const cacheTTL = 7 * 24 * time.Hour

// CacheRepository persists generated weekly plans keyed by user and
// week start so repeated requests within the window skip regeneration.
type CacheRepository struct {
	db *sql.DB
}

// NewCacheRepository creates a plan cache over an existing connection.
func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Save stores or replaces the cached plan for the user and week.
func (r *CacheRepository) Save(ctx context.Context, p WeeklyPlan) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal weekly plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO weekly_plan_cache (user_id, week_start, plan, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, week_start)
		DO UPDATE SET plan = excluded.plan, created_at = excluded.created_at`,
		p.UserID, cycle.DateOnly(p.StartDate), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache weekly plan: %w", err)
	}
	return nil
}

// Get returns the cached plan for the user and week start, or nil when
// no fresh entry exists.
func (r *CacheRepository) Get(ctx context.Context, userID string, weekStart time.Time) (*WeeklyPlan, error) {
	var payload string
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT plan, created_at FROM weekly_plan_cache
		WHERE user_id = ? AND week_start = ?`,
		userID, cycle.DateOnly(weekStart),
	).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan cache: %w", err)
	}

	if time.Since(createdAt) > cacheTTL {
		return nil, nil
	}

	var p WeeklyPlan
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached plan: %w", err)
	}
	return &p, nil
}

// Invalidate drops all cached plans for the user, called when new
// events change the projection.
func (r *CacheRepository) Invalidate(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM weekly_plan_cache WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to invalidate plan cache: %w", err)
	}
	return nil
}

// PurgeExpired removes cache entries older than the TTL.
func (r *CacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM weekly_plan_cache WHERE created_at < ?`,
		time.Now().UTC().Add(-cacheTTL))
	if err != nil {
		return 0, fmt.Errorf("failed to purge plan cache: %w", err)
	}
	return res.RowsAffected()
}
