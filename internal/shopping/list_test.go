package shopping

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"lorax-tracker/internal/recipe"
)

func weekStart() time.Time {
	return time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
}

func testRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{Title: "Egg Bowl", Ingredients: []string{"2 eggs", "1 avocado", "salt"}},
		{Title: "Keto Salad", Ingredients: []string{"1 cup kale", "2 eggs", "1 tbsp olive oil"}},
		{Title: "Lentil Soup", Ingredients: []string{"1 cup red lentils", "1 carrot", "salt"}},
	}
}

func TestBuildListCategorizesAndMerges(t *testing.T) {
	list := BuildList("u1", weekStart(), testRecipes())

	dairy := itemNames(list.Sections[SectionDairy])
	assert.Contains(t, dairy, "eggs")

	produce := itemNames(list.Sections[SectionProduce])
	assert.Contains(t, produce, "avocado")
	assert.Contains(t, produce, "kale")
	assert.Contains(t, produce, "carrot")

	grains := itemNames(list.Sections[SectionGrains])
	assert.Contains(t, grains, "red lentils")

	// "eggs" appears in two recipes and is merged into one item
	// carrying both titles.
	for _, it := range list.Sections[SectionDairy] {
		if it.Name == "eggs" {
			assert.ElementsMatch(t, []string{"Egg Bowl", "Keto Salad"}, it.Recipes)
		}
	}
}

func TestBuildListMarksStaples(t *testing.T) {
	list := BuildList("u1", weekStart(), testRecipes())

	var foundSalt bool
	for _, items := range list.Sections {
		for _, it := range items {
			if it.Name == "salt" {
				foundSalt = true
				assert.True(t, it.Staple)
			}
		}
	}
	assert.True(t, foundSalt)
}

func TestFormatSeparatesPantryCheck(t *testing.T) {
	list := BuildList("u1", weekStart(), testRecipes())
	out := Format(list)

	assert.Contains(t, out, "Shopping List")
	assert.Contains(t, out, "Check your pantry")
	assert.Contains(t, out, "salt")
	assert.Contains(t, out, "Produce")
}

func itemNames(items []Item) []string {
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE shopping_lists (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			week_start DATETIME NOT NULL,
			items      TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE (user_id, week_start)
		);
	`)
	require.NoError(t, err)
	return db
}

func TestRepositorySaveAndGet(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	list := BuildList("u1", weekStart(), testRecipes())
	_, err := repo.Save(ctx, list)
	require.NoError(t, err)

	got, err := repo.GetByUserAndWeek(ctx, "u1", weekStart())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Contains(t, itemNames(got.Sections[SectionProduce]), "kale")

	// Saving again replaces the stored list.
	_, err = repo.Save(ctx, BuildList("u1", weekStart(), testRecipes()[:1]))
	require.NoError(t, err)
	got, err = repo.GetByUserAndWeek(ctx, "u1", weekStart())
	require.NoError(t, err)
	assert.NotContains(t, itemNames(got.Sections[SectionProduce]), "kale")

	missing, err := repo.GetByUserAndWeek(ctx, "u2", weekStart())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
