// internal/workers/ordering/update-order-status/models.go
package updateorderstatus

type Input struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type Output struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}
