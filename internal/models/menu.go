// internal/models/menu.go
package models

type MenuItem struct {
	ItemID        string   `json:"itemId"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	Description   string   `json:"description,omitempty"`
	Available     bool     `json:"available"`
	Ingredients   []string `json:"ingredients,omitempty"`
	SizeAvailable []string `json:"sizeAvailable,omitempty"`
	Vegetarian    bool     `json:"vegetarian"`
	Spicy         bool     `json:"spicy"`
}

// MenuNames returns item names in menu order.
func MenuNames(items []MenuItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// MenuCategories returns the distinct categories in first-seen order.
func MenuCategories(items []MenuItem) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}
