package recommend

import (
	"sort"
	"time"

	"lorax-tracker/internal/recipe"
)

// maxPerMeal caps how many suggestions one meal slot receives.
const maxPerMeal = 2

// SelectRotated picks up to limit recipes for one meal slot with
// anti-repetition rotation:
//
//  1. Recipes not shown within the rotation window ("fresh") are
//     preferred over recently shown ones.
//  2. Among fresh recipes, picks are spread across distinct leading
//     ingredients; within an ingredient group the lowest prep time wins.
//  3. When fresh recipes run out, recently shown ones backfill,
//     least-recently shown first.
//
// recentlyShown maps recipe ID to the time it was last shown.
func SelectRotated(candidates []recipe.Recipe, recentlyShown map[string]time.Time, limit int) []recipe.Recipe {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	var fresh, recent []recipe.Recipe
	for _, r := range candidates {
		if _, shown := recentlyShown[r.ID]; shown {
			recent = append(recent, r)
		} else {
			fresh = append(fresh, r)
		}
	}

	picked := pickDiverse(fresh, limit)
	if len(picked) < limit {
		sort.Slice(recent, func(i, j int) bool {
			a, b := recentlyShown[recent[i].ID], recentlyShown[recent[j].ID]
			if !a.Equal(b) {
				return a.Before(b)
			}
			return recent[i].ID < recent[j].ID
		})
		for _, r := range recent {
			if len(picked) == limit {
				break
			}
			picked = append(picked, r)
		}
	}
	return picked
}

// pickDiverse selects up to limit recipes spreading across distinct
// leading ingredients. A second recipe from an already-used ingredient
// group is only taken once every group has contributed.
func pickDiverse(candidates []recipe.Recipe, limit int) []recipe.Recipe {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]recipe.Recipe, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PrepMinutes != sorted[j].PrepMinutes {
			return sorted[i].PrepMinutes < sorted[j].PrepMinutes
		}
		return sorted[i].ID < sorted[j].ID
	})

	var picked []recipe.Recipe
	usedGroups := make(map[string]struct{})
	usedIDs := make(map[string]struct{})
	for _, r := range sorted {
		if len(picked) == limit {
			return picked
		}
		group := FirstSignificantIngredient(r)
		if _, used := usedGroups[group]; used {
			continue
		}
		usedGroups[group] = struct{}{}
		usedIDs[r.ID] = struct{}{}
		picked = append(picked, r)
	}
	for _, r := range sorted {
		if len(picked) == limit {
			break
		}
		if _, dup := usedIDs[r.ID]; dup {
			continue
		}
		usedIDs[r.ID] = struct{}{}
		picked = append(picked, r)
	}
	return picked
}
