package recommend

import (
	"regexp"
	"sort"
	"strings"

	"lorax-tracker/internal/recipe"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	quantityRe      = regexp.MustCompile(`^[\d¼½¾⅓⅔⅛/.\-\s]+`)
)

// measurementUnits are stripped from ingredient lines before matching.
var measurementUnits = map[string]struct{}{
	"cup": {}, "cups": {},
	"tablespoon": {}, "tablespoons": {}, "tbsp": {},
	"teaspoon": {}, "teaspoons": {}, "tsp": {},
	"ounce": {}, "ounces": {}, "oz": {},
	"pound": {}, "pounds": {}, "lb": {}, "lbs": {},
	"gram": {}, "grams": {}, "g": {}, "kg": {},
	"ml": {}, "l": {}, "liter": {}, "liters": {},
	"clove": {}, "cloves": {},
	"can": {}, "cans": {},
	"slice": {}, "slices": {},
	"piece": {}, "pieces": {},
	"pinch": {}, "handful": {}, "bunch": {},
	"of": {},
}

// descriptiveModifiers carry no shopping information and are stripped.
var descriptiveModifiers = map[string]struct{}{
	"fresh": {}, "dried": {}, "frozen": {},
	"chopped": {}, "minced": {}, "diced": {}, "sliced": {},
	"grated": {}, "ground": {}, "shredded": {}, "melted": {},
	"large": {}, "small": {}, "medium": {},
	"organic": {}, "raw": {}, "cooked": {}, "ripe": {},
	"optional": {}, "to": {}, "taste": {},
}

// CleanIngredient reduces a recipe ingredient line to its base food
// name: quantities, units, descriptive modifiers and parentheticals
// are removed. Returns "" when nothing meaningful remains.
func CleanIngredient(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = parentheticalRe.ReplaceAllString(s, " ")
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	s = quantityRe.ReplaceAllString(s, "")

	var kept []string
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, ".,:;*")
		if w == "" {
			continue
		}
		if _, unit := measurementUnits[w]; unit {
			continue
		}
		if _, mod := descriptiveModifiers[w]; mod {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// FirstSignificantIngredient returns the recipe's first ingredient that
// cleans to a non-empty name. It drives ingredient-diversity grouping.
func FirstSignificantIngredient(r recipe.Recipe) string {
	for _, line := range r.Ingredients {
		if name := CleanIngredient(line); name != "" {
			return name
		}
	}
	return ""
}

// shoppingPreviewSize caps the preview at the most frequent items.
const shoppingPreviewSize = 8

// ShoppingPreview aggregates cleaned ingredients across the recipes and
// returns the most frequent ones, ties broken alphabetically.
func ShoppingPreview(recipes []recipe.Recipe) []string {
	counts := make(map[string]int)
	for _, r := range recipes {
		seen := make(map[string]struct{})
		for _, line := range r.Ingredients {
			name := CleanIngredient(line)
			if name == "" {
				continue
			}
			// Count each ingredient once per recipe.
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > shoppingPreviewSize {
		names = names[:shoppingPreviewSize]
	}
	return names
}
