package shopping

import "time"

// ShoppingList is the categorized shopping list generated from a
// week's selected recipes.
type ShoppingList struct {
	ID        int64             `json:"id"`
	UserID    string            `json:"user_id"`
	WeekStart time.Time         `json:"week_start"`
	Sections  map[string][]Item `json:"sections"`
	CreatedAt time.Time         `json:"created_at"`
}

// Item is one shopping list entry with the recipes that need it.
type Item struct {
	Name    string   `json:"name"`
	Recipes []string `json:"recipes,omitempty"`
	// Staple marks pantry items the user likely has and should only
	// check, not buy.
	Staple bool `json:"staple,omitempty"`
}
