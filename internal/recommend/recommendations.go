package recommend

import (
	"context"
	"log"
	"time"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/recipe"
)

// defaultRotationWindow is how far back a recipe counts as recently
// shown. It is independent of the history retention period.
const defaultRotationWindow = 14 * 24 * time.Hour

// listPreviewSize caps the foods and activities lists in chat output.
const listPreviewSize = 3

// HistoryStore tracks which recipes a user has recently been shown.
type HistoryStore interface {
	// Recent returns recipe IDs shown to the user since the given
	// time, mapped to when they were last shown.
	Recent(ctx context.Context, userID string, since time.Time) (map[string]time.Time, error)
	// RecordShown logs that the recipes were shown to the user.
	RecordShown(ctx context.Context, userID string, recipeIDs []string, shownAt time.Time) error
}

// MealSuggestion is the rotated picks for one meal slot.
type MealSuggestion struct {
	Meal    recipe.MealType
	Recipes []recipe.Recipe
}

// PhaseRecommendations is everything the bot suggests for a functional
// phase: static guidance plus, when the catalog is available, rotated
// recipe picks and a shopping preview.
type PhaseRecommendations struct {
	Phase           cycle.FunctionalPhase
	DietaryStyle    string
	FastingProtocol string
	Foods           []string
	Activities      []string
	Supplements     []string
	Meals           []MealSuggestion
	ShoppingPreview []string
}

// Builder assembles phase recommendations. A nil Catalog or History is
// allowed and degrades to static guidance only.
type Builder struct {
	Catalog        *recipe.Catalog
	History        HistoryStore
	RotationWindow time.Duration
	Now            func() time.Time
}

// NewBuilder creates a Builder with the default 14-day rotation window.
func NewBuilder(catalog *recipe.Catalog, history HistoryStore) *Builder {
	return &Builder{
		Catalog:        catalog,
		History:        history,
		RotationWindow: defaultRotationWindow,
		Now:            time.Now,
	}
}

// ForPhase builds the recommendations for one functional phase. Recipe
// subsystem failures are logged and degrade to static guidance, never
// propagated.
func (b *Builder) ForPhase(ctx context.Context, userID string, phase cycle.FunctionalPhase) PhaseRecommendations {
	details := cycle.FunctionalDetailsFor(phase)
	rec := PhaseRecommendations{
		Phase:           phase,
		DietaryStyle:    details.DietaryStyle,
		FastingProtocol: details.FastingProtocol,
		Foods:           firstN(details.Foods, listPreviewSize),
		Activities:      firstN(details.Activities, listPreviewSize),
		Supplements:     details.Supplements,
	}

	if b.Catalog == nil || b.Catalog.Len() == 0 {
		return rec
	}

	recentlyShown := b.recentlyShown(ctx, userID)

	var shownIDs []string
	var allPicked []recipe.Recipe
	for _, meal := range recipe.MealTypes {
		candidates := b.Catalog.ByMealType(phase, meal)
		picks := SelectRotated(candidates, recentlyShown, maxPerMeal)
		if len(picks) == 0 {
			continue
		}
		rec.Meals = append(rec.Meals, MealSuggestion{Meal: meal, Recipes: picks})
		allPicked = append(allPicked, picks...)
		for _, p := range picks {
			shownIDs = append(shownIDs, p.ID)
		}
	}
	rec.ShoppingPreview = ShoppingPreview(allPicked)

	if b.History != nil && len(shownIDs) > 0 {
		if err := b.History.RecordShown(ctx, userID, shownIDs, b.now()); err != nil {
			log.Printf("recommend: failed to record shown recipes for %s: %v", userID, err)
		}
	}
	return rec
}

func (b *Builder) recentlyShown(ctx context.Context, userID string) map[string]time.Time {
	if b.History == nil {
		return nil
	}
	window := b.RotationWindow
	if window <= 0 {
		window = defaultRotationWindow
	}
	recent, err := b.History.Recent(ctx, userID, b.now().Add(-window))
	if err != nil {
		log.Printf("recommend: recipe history unavailable for %s: %v", userID, err)
		return nil
	}
	return recent
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func firstN(xs []string, n int) []string {
	if len(xs) <= n {
		return xs
	}
	return xs[:n]
}
