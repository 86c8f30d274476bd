package telegram

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/recipe"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in      string
		command string
		args    string
	}{
		{"/register 2025-08-01 cramps", "/register", "2025-08-01 cramps"},
		{"/phase", "/phase", ""},
		{"  /help  ", "/help", ""},
		{"hello there", "", "hello there"},
	}
	for _, tc := range cases {
		command, args := splitCommand(tc.in)
		assert.Equal(t, tc.command, command, "input %q", tc.in)
		assert.Equal(t, tc.args, args, "input %q", tc.in)
	}
}

func TestParsePhaseArgument(t *testing.T) {
	p, ok := parsePhase("period")
	require.True(t, ok)
	assert.Equal(t, "menstruation", string(p))

	p, ok = parsePhase("Luteal")
	require.True(t, ok)
	assert.Equal(t, "luteal", string(p))

	_, ok = parsePhase("2025-08-01")
	assert.False(t, ok)
}

func TestCallbackDataRoundTrip(t *testing.T) {
	data := callbackData(callbackPick, recipe.Lunch, "keto-salad")
	action, meal, id, ok := parseCallbackData(data)
	require.True(t, ok)
	assert.Equal(t, callbackPick, action)
	assert.Equal(t, recipe.Lunch, meal)
	assert.Equal(t, "keto-salad", id)

	_, _, _, ok = parseCallbackData("garbage")
	assert.False(t, ok)
}

func TestSelectionSessionNextMeal(t *testing.T) {
	s := SelectionSession{Current: recipe.Breakfast}

	next, ok := s.NextMeal()
	require.True(t, ok)
	assert.Equal(t, recipe.Lunch, next)

	s.Current = recipe.Snack
	_, ok = s.NextMeal()
	assert.False(t, ok)
}

func writeSelectionRecipe(t *testing.T, root, name string, tags ...string) {
	t.Helper()
	dir := filepath.Join(root, "power")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := "# " + name + "\n\n## Tags\n\n"
	for _, tag := range tags {
		content += "- " + tag + "\n"
	}
	content += "\n## Ingredients\n\n- 1 cup lentils\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0o644))
}

func TestSelectionCandidatesExcludeChosen(t *testing.T) {
	root := t.TempDir()
	writeSelectionRecipe(t, root, "egg-bowl", "breakfast", "lunch")
	writeSelectionRecipe(t, root, "keto-salad", "lunch")

	catalog := recipe.NewCatalog(root)
	_, err := catalog.Load()
	require.NoError(t, err)

	b := &Bot{catalog: catalog}
	chosen := map[recipe.MealType]string{recipe.Breakfast: "egg-bowl"}

	// A recipe picked for breakfast is not offered again for lunch.
	picks := b.selectionCandidates(context.Background(), "u1", cycle.Power, recipe.Lunch, chosen)
	require.Len(t, picks, 1)
	assert.Equal(t, "keto-salad", picks[0].ID)

	// With nothing chosen yet both lunch recipes are offered.
	picks = b.selectionCandidates(context.Background(), "u1", cycle.Power, recipe.Lunch, nil)
	assert.Len(t, picks, 2)
}

func setupSessionDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE selection_sessions (
			user_id    TEXT PRIMARY KEY,
			state      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	require.NoError(t, err)
	return db
}

func TestSelectionRepository(t *testing.T) {
	repo := NewSelectionRepository(setupSessionDB(t))
	ctx := context.Background()

	session := SelectionSession{
		UserID:    "u1",
		WeekStart: time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC),
		Current:   recipe.Breakfast,
		Chosen:    map[recipe.MealType]string{},
	}
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, recipe.Breakfast, got.Current)

	// Progress survives a round trip.
	got.Chosen[recipe.Breakfast] = "egg-bowl"
	got.Current = recipe.Lunch
	require.NoError(t, repo.Save(ctx, *got))

	got, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, recipe.Lunch, got.Current)
	assert.Equal(t, "egg-bowl", got.Chosen[recipe.Breakfast])

	require.NoError(t, repo.Delete(ctx, "u1"))
	got, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
