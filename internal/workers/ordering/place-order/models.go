// internal/workers/ordering/place-order/models.go
package placeorder

import "restaurant-workers/internal/models"

type Input struct {
	Message string           `json:"message"`
	User    *models.Customer `json:"user,omitempty"`
}

type Output struct {
	Success    bool              `json:"success"`
	Intent     string            `json:"intent"`
	Order      *models.Order     `json:"order,omitempty"`
	Menu       []models.MenuItem `json:"menu,omitempty"`
	Response   string            `json:"response"`
	Confidence float64           `json:"confidence"`
}
