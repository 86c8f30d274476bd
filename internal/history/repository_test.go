package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE recipe_history (
			user_id   TEXT NOT NULL,
			recipe_id TEXT NOT NULL,
			shown_at  DATETIME NOT NULL,
			PRIMARY KEY (user_id, recipe_id)
		);
	`)
	require.NoError(t, err)
	return db
}

func TestRecordAndRecent(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.RecordShown(ctx, "u1", []string{"egg-bowl", "keto-salad"}, now))
	require.NoError(t, repo.RecordShown(ctx, "u1", []string{"old-soup"}, now.Add(-20*24*time.Hour)))
	require.NoError(t, repo.RecordShown(ctx, "u2", []string{"egg-bowl"}, now))

	recent, err := repo.Recent(ctx, "u1", now.Add(-14*24*time.Hour))
	require.NoError(t, err)

	// The 20-day-old entry is outside the window; the other user's
	// history is invisible.
	assert.Len(t, recent, 2)
	assert.Contains(t, recent, "egg-bowl")
	assert.Contains(t, recent, "keto-salad")
	assert.NotContains(t, recent, "old-soup")
}

func TestRecordShownRefreshesTimestamp(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()
	old := time.Now().UTC().Add(-10 * 24 * time.Hour)
	now := time.Now().UTC()

	require.NoError(t, repo.RecordShown(ctx, "u1", []string{"egg-bowl"}, old))
	require.NoError(t, repo.RecordShown(ctx, "u1", []string{"egg-bowl"}, now))

	recent, err := repo.Recent(ctx, "u1", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Contains(t, recent, "egg-bowl")
}

func TestRecordShownEmptyIsNoop(t *testing.T) {
	repo := NewRepository(setupDB(t))
	assert.NoError(t, repo.RecordShown(context.Background(), "u1", nil, time.Now()))
}

func TestPurgeExpired(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.RecordShown(ctx, "u1", []string{"fresh"}, now))
	require.NoError(t, repo.RecordShown(ctx, "u1", []string{"stale"}, now.Add(-40*24*time.Hour)))

	dropped, err := repo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dropped)

	recent, err := repo.Recent(ctx, "u1", now.Add(-60*24*time.Hour))
	require.NoError(t, err)
	assert.Contains(t, recent, "fresh")
	assert.NotContains(t, recent, "stale")
}
