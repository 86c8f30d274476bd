package recommend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/recipe"
)

type fakeHistory struct {
	recent   map[string]time.Time
	recorded []string
	failing  bool
}

func (f *fakeHistory) Recent(_ context.Context, _ string, _ time.Time) (map[string]time.Time, error) {
	if f.failing {
		return nil, errors.New("db down")
	}
	return f.recent, nil
}

func (f *fakeHistory) RecordShown(_ context.Context, _ string, ids []string, _ time.Time) error {
	if f.failing {
		return errors.New("db down")
	}
	f.recorded = append(f.recorded, ids...)
	return nil
}

func testCatalog(t *testing.T) *recipe.Catalog {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"power/egg-bowl.md":   "# Egg Bowl\n\n## Prep Time\n10 minutes\n\n## Tags\n- breakfast\n\n## Ingredients\n- 2 eggs\n",
		"power/keto-salad.md": "# Keto Salad\n\n## Prep Time\n15 minutes\n\n## Tags\n- lunch\n\n## Ingredients\n- 1 cup kale\n- 2 eggs\n",
		"power/fish-plate.md": "# Fish Plate\n\n## Prep Time\n25 minutes\n\n## Tags\n- dinner\n\n## Ingredients\n- 1 salmon fillet\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	cat := recipe.NewCatalog(root)
	_, err := cat.Load()
	require.NoError(t, err)
	return cat
}

func TestBuilderForPhase(t *testing.T) {
	history := &fakeHistory{}
	b := NewBuilder(testCatalog(t), history)

	rec := b.ForPhase(context.Background(), "u1", cycle.Power)

	assert.Equal(t, "Ketobiotic", rec.DietaryStyle)
	assert.Len(t, rec.Foods, 3)
	assert.Len(t, rec.Activities, 3)
	require.Len(t, rec.Meals, 3) // breakfast, lunch, dinner; no snack recipes
	assert.Equal(t, recipe.Breakfast, rec.Meals[0].Meal)
	assert.NotEmpty(t, rec.ShoppingPreview)
	assert.Contains(t, rec.ShoppingPreview, "eggs")

	// Every suggested recipe was recorded as shown.
	assert.Len(t, history.recorded, 3)
}

func TestBuilderDegradesWithoutCatalog(t *testing.T) {
	b := NewBuilder(nil, &fakeHistory{})

	rec := b.ForPhase(context.Background(), "u1", cycle.Nurture)

	assert.Equal(t, "Extended hormone feasting", rec.DietaryStyle)
	assert.Contains(t, rec.Supplements, "Magnesium")
	assert.Empty(t, rec.Meals)
	assert.Empty(t, rec.ShoppingPreview)
}

func TestBuilderDegradesWhenHistoryFails(t *testing.T) {
	b := NewBuilder(testCatalog(t), &fakeHistory{failing: true})

	rec := b.ForPhase(context.Background(), "u1", cycle.Power)

	// History failure still yields recipe suggestions, just without
	// rotation state.
	assert.NotEmpty(t, rec.Meals)
	assert.Equal(t, "Ketobiotic", rec.DietaryStyle)
}
