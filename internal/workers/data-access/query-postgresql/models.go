// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "restaurant-workers/internal/models"

type Input struct {
	QueryType string `json:"queryType"`
	OrderID   string `json:"orderId,omitempty"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeMenuItems      = models.QueryTypeMenuItems
	QueryTypeMenuByCategory = models.QueryTypeMenuByCategory
	QueryTypeOrderDetails   = models.QueryTypeOrderDetails
	QueryTypeRecentOrders   = models.QueryTypeRecentOrders
)
