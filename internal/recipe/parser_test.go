package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorax-tracker/internal/cycle"
)

const sampleRecipe = `# Avocado Egg Bowl

URL: https://example.com/avocado-egg-bowl

## Prep Time
1 hour 15 minutes

## Tags
- Breakfast
- keto

## Ingredients
- 2 eggs
- 1 avocado
- 1 tbsp olive oil

## Instructions
1. Soft-boil the eggs.
2. Slice the avocado.
3. Assemble and drizzle with oil.

## Notes
Best served warm.
`

func TestParseRecipe(t *testing.T) {
	rec, err := Parse(strings.NewReader(sampleRecipe), "recipes/power/avocado-egg-bowl.md")
	require.NoError(t, err)

	assert.Equal(t, "avocado-egg-bowl", rec.ID)
	assert.Equal(t, "Avocado Egg Bowl", rec.Title)
	assert.Equal(t, cycle.Power, rec.Phase)
	assert.Equal(t, 75, rec.PrepMinutes)
	assert.Equal(t, []string{"breakfast", "keto"}, rec.Tags)
	assert.Len(t, rec.Ingredients, 3)
	assert.Len(t, rec.Instructions, 3)
	assert.Equal(t, "Best served warm.", rec.Notes)
	assert.Equal(t, "https://example.com/avocado-egg-bowl", rec.URL)
	assert.Equal(t, []MealType{Breakfast}, rec.MealTypes())
}

func TestParseRejectsIncompleteRecipes(t *testing.T) {
	_, err := Parse(strings.NewReader("## Ingredients\n- salt\n"), "recipes/power/x.md")
	assert.ErrorContains(t, err, "missing title")

	_, err = Parse(strings.NewReader("# Just a Title\n"), "recipes/power/x.md")
	assert.ErrorContains(t, err, "no ingredients")
}

func TestParsePrepTime(t *testing.T) {
	assert.Equal(t, 30, ParsePrepTime("30 minutes"))
	assert.Equal(t, 45, ParsePrepTime("45 mins"))
	assert.Equal(t, 60, ParsePrepTime("1 hour"))
	assert.Equal(t, 90, ParsePrepTime("1 hr 30 min"))
	assert.Equal(t, 0, ParsePrepTime("quick"))
}

func TestPhaseFromPath(t *testing.T) {
	assert.Equal(t, cycle.Nurture, phaseFromPath("recipes/nurture/soup.md"))
	assert.Equal(t, cycle.FunctionalPhase(""), phaseFromPath("soup.md"))
}
