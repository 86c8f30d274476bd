package shopping

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"lorax-tracker/internal/recipe"
	"lorax-tracker/internal/recommend"
)

// Section names in display order.
const (
	SectionProteins   = "Proteins"
	SectionProduce    = "Produce"
	SectionDairy      = "Dairy & Eggs"
	SectionGrains     = "Grains & Legumes"
	SectionNuts       = "Nuts & Seeds"
	SectionCondiments = "Condiments & Oils"
	SectionPantry     = "Pantry"
)

var sectionOrder = []string{
	SectionProteins, SectionProduce, SectionDairy,
	SectionGrains, SectionNuts, SectionCondiments, SectionPantry,
}

// categoryKeywords assigns an ingredient to a section by substring
// match; first hit wins in sectionOrder.
var categoryKeywords = map[string][]string{
	SectionProteins: {
		"chicken", "turkey", "beef", "pork", "fish", "salmon", "tuna",
		"shrimp", "tofu", "tempeh", "broth",
	},
	SectionProduce: {
		"kale", "spinach", "broccoli", "cauliflower", "carrot", "beet",
		"onion", "garlic", "leek", "fennel", "potato", "squash", "yuca",
		"avocado", "lemon", "lime", "berries", "blueberr", "strawberr",
		"banana", "apple", "mango", "papaya", "pineapple", "grapefruit",
		"date", "fig", "parsley", "cilantro", "ginger", "sprouts",
		"mushroom", "pepper", "tomato", "cucumber", "zucchini", "celery",
	},
	SectionDairy: {
		"egg", "yogurt", "kefir", "cheese", "butter", "ghee", "milk", "cream",
	},
	SectionGrains: {
		"oat", "rice", "quinoa", "lentil", "chickpea", "bean", "pasta", "bread",
	},
	SectionNuts: {
		"almond", "cashew", "walnut", "pecan", "brazil nut", "flax",
		"chia", "pumpkin seed", "sunflower seed", "sesame",
	},
	SectionCondiments: {
		"olive oil", "coconut oil", "vinegar", "tamari", "soy sauce",
		"mustard", "tahini", "honey", "maple",
	},
}

// pantryStaples are assumed present in most kitchens; they land in a
// check-before-shopping section instead of the buy list.
var pantryStaples = map[string]struct{}{
	"salt": {}, "pepper": {}, "black pepper": {}, "water": {},
	"olive oil": {}, "sugar": {}, "flour": {}, "baking powder": {},
	"baking soda": {}, "vanilla extract": {}, "cumin": {}, "paprika": {},
	"oregano": {}, "cinnamon": {}, "turmeric": {},
}

// BuildList aggregates the recipes' ingredients into a categorized
// shopping list for the week.
func BuildList(userID string, weekStart time.Time, recipes []recipe.Recipe) ShoppingList {
	type entry struct {
		name    string
		recipes []string
	}
	merged := make(map[string]*entry)
	for _, r := range recipes {
		for _, line := range r.Ingredients {
			name := recommend.CleanIngredient(line)
			if name == "" {
				continue
			}
			e, ok := merged[name]
			if !ok {
				e = &entry{name: name}
				merged[name] = e
			}
			if !contains(e.recipes, r.Title) {
				e.recipes = append(e.recipes, r.Title)
			}
		}
	}

	sections := make(map[string][]Item)
	for _, e := range merged {
		item := Item{Name: e.name, Recipes: e.recipes}
		if _, staple := pantryStaples[e.name]; staple {
			item.Staple = true
		}
		sections[categorize(e.name)] = append(sections[categorize(e.name)], item)
	}
	for name := range sections {
		items := sections[name]
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	}

	return ShoppingList{
		UserID:    userID,
		WeekStart: weekStart,
		Sections:  sections,
		CreatedAt: time.Now().UTC(),
	}
}

func categorize(name string) string {
	for _, section := range sectionOrder {
		for _, kw := range categoryKeywords[section] {
			if strings.Contains(name, kw) {
				return section
			}
		}
	}
	return SectionPantry
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Format renders the shopping list as a Markdown chat message. Staples
// are collected into a separate "check your pantry" block.
func Format(list ShoppingList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *Shopping List* (week of %s)\n", list.WeekStart.Format("Jan 2"))

	var staples []Item
	for _, section := range sectionOrder {
		items := list.Sections[section]
		var buy []Item
		for _, it := range items {
			if it.Staple {
				staples = append(staples, it)
				continue
			}
			buy = append(buy, it)
		}
		if len(buy) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*%s:*\n", section)
		for _, it := range buy {
			fmt.Fprintf(&b, "• %s\n", it.Name)
		}
	}

	if len(staples) > 0 {
		b.WriteString("\n✅ *Check your pantry:*\n")
		sort.Slice(staples, func(i, j int) bool { return staples[i].Name < staples[j].Name })
		for _, it := range staples {
			fmt.Fprintf(&b, "• %s\n", it.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
