package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"lorax-tracker/internal/cycle"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE cycle_events (
			user_id      TEXT NOT NULL,
			event_date   DATETIME NOT NULL,
			state        TEXT NOT NULL,
			pain_level   INTEGER,
			energy_level INTEGER,
			notes        TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (user_id, event_date)
		);
	`)
	require.NoError(t, err)
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPutAndList(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	pain := 6
	require.NoError(t, repo.Put(ctx, cycle.CycleEvent{
		UserID:    "u1",
		Date:      date(2025, 8, 2),
		State:     cycle.Menstruation,
		PainLevel: &pain,
		Notes:     "heavy flow",
	}))
	require.NoError(t, repo.Put(ctx, cycle.CycleEvent{
		UserID: "u1",
		Date:   date(2025, 8, 1),
		State:  cycle.Menstruation,
	}))

	events, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Ascending by date.
	assert.Equal(t, date(2025, 8, 1), events[0].Date)
	assert.Equal(t, date(2025, 8, 2), events[1].Date)
	assert.Equal(t, cycle.Menstruation, events[1].State)
	require.NotNil(t, events[1].PainLevel)
	assert.Equal(t, 6, *events[1].PainLevel)
	assert.Nil(t, events[1].EnergyLevel)
	assert.Equal(t, "heavy flow", events[1].Notes)
}

func TestPutOverwritesSameDay(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, cycle.CycleEvent{
		UserID: "u1", Date: date(2025, 8, 1), State: cycle.Menstruation,
	}))
	require.NoError(t, repo.Put(ctx, cycle.CycleEvent{
		UserID: "u1", Date: date(2025, 8, 1), State: cycle.Ovulation, Notes: "corrected",
	}))

	events, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, cycle.Ovulation, events[0].State)
	assert.Equal(t, "corrected", events[0].Notes)
}

func TestPutRange(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	n, err := repo.PutRange(ctx, "u1", cycle.Menstruation, date(2025, 8, 1), date(2025, 8, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	events, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, events, 5)
	assert.Equal(t, 1, cycle.CycleDay(events, date(2025, 8, 1)))
	assert.Equal(t, 4, cycle.CycleDay(events, date(2025, 8, 4)))
}

func TestPutRangeRejectsReversedDates(t *testing.T) {
	repo := NewRepository(setupDB(t))

	_, err := repo.PutRange(context.Background(), "u1", cycle.Menstruation, date(2025, 8, 5), date(2025, 8, 1))
	assert.ErrorContains(t, err, "invalid range")
}

func TestListScopedToUser(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, cycle.CycleEvent{UserID: "u1", Date: date(2025, 8, 1), State: cycle.Menstruation}))
	require.NoError(t, repo.Put(ctx, cycle.CycleEvent{UserID: "u2", Date: date(2025, 8, 2), State: cycle.Menstruation}))

	events, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "u1", events[0].UserID)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, cycle.CycleEvent{UserID: "u1", Date: date(2025, 8, 1), State: cycle.Menstruation}))
	require.NoError(t, repo.Delete(ctx, "u1", date(2025, 8, 1)))

	events, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, events)
}
