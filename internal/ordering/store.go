package ordering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"restaurant-workers/internal/common/database"
	"restaurant-workers/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository is the write side used by the order workers.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
}

const orderColumns = `order_id, customer_name, customer_phone, customer_email,
	       total_price, status, original_message, created_at, updated_at`

type OrderStore struct {
	pg           *database.PostgresClient
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

var _ OrderRepository = (*OrderStore)(nil)

func NewOrderStore(pg *database.PostgresClient, defaultLimit, maxLimit int) *OrderStore {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &OrderStore{
		pg:           pg,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts the order row and one row per line item in a single
// transaction.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	return s.pg.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			order.OrderID, order.User.Name, order.User.Phone, order.User.Email,
			order.TotalPrice, string(order.Status), order.OriginalMessage,
			order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order %s: %w", order.OrderID, err)
		}

		for _, item := range order.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, item_id, name, quantity, unit_price, total_price)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				order.OrderID, item.ItemID, item.Name, item.Quantity, item.UnitPrice, item.TotalPrice,
			)
			if err != nil {
				return fmt.Errorf("insert order item %s: %w", item.Name, err)
			}
		}
		return nil
	})
}

func (s *OrderStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.pg.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	byOrder, err := s.items(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	if items, ok := byOrder[orderID]; ok {
		order.Items = items
	}
	return order, nil
}

// List returns the newest orders first. A non-positive limit falls back to
// the default and larger limits are clamped. An empty status lists all.
func (s *OrderStore) List(ctx context.Context, limit int, status models.OrderStatus) ([]models.Order, error) {
	limit = s.clampLimit(limit)

	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	var ids []string
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.OrderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read order rows: %w", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	byOrder, err := s.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if items, ok := byOrder[orders[i].OrderID]; ok {
			orders[i].Items = items
		}
	}
	return orders, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	result, err := s.pg.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE order_id = $3`,
		string(status), s.now(), orderID,
	)
	if err != nil {
		return fmt.Errorf("update order %s: %w", orderID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order %s: %w", orderID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return nil
}

func (s *OrderStore) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *OrderStore) items(ctx context.Context, orderIDs []string) (map[string][]models.OrderItem, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT order_id, item_id, name, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			item    models.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ItemID, &item.Name, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], item)
	}
	return byOrder, rows.Err()
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order        models.Order
		phone, email sql.NullString
		status       string
	)
	err := row.Scan(
		&order.OrderID, &order.User.Name, &phone, &email,
		&order.TotalPrice, &status, &order.OriginalMessage,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	order.User.Phone = phone.String
	order.User.Email = email.String
	order.Status = models.OrderStatus(status)
	order.Items = []models.OrderItem{}
	return &order, nil
}
