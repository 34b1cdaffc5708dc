// internal/workers/data-access/query-postgresql/queries/menu.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"restaurant-workers/internal/ordering"
)

func MenuItems(ctx context.Context, db *sql.DB, _ map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	items, err := ordering.LoadMenu(ctx, db, "")
	if err != nil {
		return nil, 0, 0, err
	}

	return items, len(items), time.Since(start).Milliseconds(), nil
}

func MenuByCategory(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	category, err := stringParam(params, "category")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()

	items, err := ordering.LoadMenu(ctx, db, category)
	if err != nil {
		return nil, 0, 0, err
	}

	return items, len(items), time.Since(start).Milliseconds(), nil
}
