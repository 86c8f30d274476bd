package recipe

import (
	"lorax-tracker/internal/cycle"
)

// MealType is the slot a recipe fills in a daily plan.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists the meal slots in planning order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

// Recipe is one entry of the markdown recipe catalog. Recipes are
// organized on disk by functional phase; the meal type comes from tags.
type Recipe struct {
	ID           string
	Title        string
	Phase        cycle.FunctionalPhase
	PrepMinutes  int
	Tags         []string
	Ingredients  []string
	Instructions []string
	Notes        string
	URL          string
	FilePath     string
}

// HasTag reports whether the recipe carries the tag (case-insensitive
// matching is done at parse time; tags are stored lowercased).
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MealTypes returns the meal slots this recipe can fill, derived from
// its tags. A recipe with no meal tag fits no slot.
func (r Recipe) MealTypes() []MealType {
	var out []MealType
	for _, mt := range MealTypes {
		if r.HasTag(string(mt)) {
			out = append(out, mt)
		}
	}
	return out
}
