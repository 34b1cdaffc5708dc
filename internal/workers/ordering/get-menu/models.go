// internal/workers/ordering/get-menu/models.go
package getmenu

import "restaurant-workers/internal/models"

type Input struct {
	Category string `json:"category,omitempty"`
}

type Output struct {
	Menu       []models.MenuItem `json:"menu"`
	Count      int               `json:"count"`
	Category   string            `json:"category,omitempty"`
	Categories []string          `json:"categories"`
}
