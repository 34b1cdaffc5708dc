// internal/workers/data-access/query-postgresql/queries/order.go
package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant-workers/internal/common/database"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/ordering"
)

const (
	DefaultRecentOrders = 20
	MaxRecentOrders     = 100
)

func orderStore(db *sql.DB) *ordering.OrderStore {
	return ordering.NewOrderStore(database.NewPostgresFromDB(db), DefaultRecentOrders, MaxRecentOrders)
}

// OrderDetails returns one order with its line items. A missing order
// surfaces ordering.ErrOrderNotFound.
func OrderDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	orderID, err := stringParam(params, "orderId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()

	order, err := orderStore(db).Get(ctx, orderID)
	if err != nil {
		return nil, 0, 0, err
	}

	return order, 1, time.Since(start).Milliseconds(), nil
}

// RecentOrders lists the newest orders, optionally filtered by status.
func RecentOrders(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	limit := 0
	switch v := params["limit"].(type) {
	case int:
		limit = v
	case float64:
		limit = int(v)
	}

	var status models.OrderStatus
	if raw, ok := params["status"].(string); ok && raw != "" {
		parsed, valid := models.ParseOrderStatus(raw)
		if !valid {
			return nil, 0, 0, fmt.Errorf("%w: status %q", ErrInvalidParam, raw)
		}
		status = parsed
	}

	start := time.Now()

	orders, err := orderStore(db).List(ctx, limit, status)
	if err != nil {
		return nil, 0, 0, err
	}

	return orders, len(orders), time.Since(start).Milliseconds(), nil
}
