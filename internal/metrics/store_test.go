package metrics

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
		CREATE TABLE command_metrics (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			command    TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			latency_ms INTEGER NOT NULL,
			success    INTEGER NOT NULL,
			timestamp  DATETIME NOT NULL
		);
	`)
	require.NoError(t, err)
	return db
}

func TestRecordAndDailyUsage(t *testing.T) {
	store := NewStore(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Record(ctx, CommandMetric{
		Command: "/weeklyplan", UserID: "u1", LatencyMS: 120, Success: true, Timestamp: now,
	}))
	require.NoError(t, store.Record(ctx, CommandMetric{
		Command: "/phase", UserID: "u1", LatencyMS: 40, Success: false, Timestamp: now,
	}))

	usage, err := store.GetDailyUsage(ctx, 7)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 2, usage[0].Commands)
	assert.Equal(t, 1, usage[0].Failures)
	assert.InDelta(t, 80.0, usage[0].AvgMS, 0.01)
}

func TestCleanup(t *testing.T) {
	store := NewStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, CommandMetric{
		Command: "/phase", UserID: "u1", LatencyMS: 10, Success: true,
		Timestamp: time.Now().UTC().AddDate(0, 0, -60),
	}))
	require.NoError(t, store.Record(ctx, CommandMetric{
		Command: "/phase", UserID: "u1", LatencyMS: 10, Success: true,
	}))

	dropped, err := store.Cleanup(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dropped)
}
