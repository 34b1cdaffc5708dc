// Package ordering holds the persistence and presentation pieces that sit
// around the order parser: the menu catalog, the order store, the chat log
// and the reply texts sent back to customers.
package ordering

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"restaurant-workers/internal/common/config"
	"restaurant-workers/internal/common/database"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/models"
)

const menuQuery = `
	SELECT item_id, name, category, price, description, available,
	       ingredients, size_available, vegetarian, spicy
	FROM menu_items
	WHERE available = true`

// MenuProvider is what the workers need from the catalog.
type MenuProvider interface {
	Available(ctx context.Context, category string) ([]models.MenuItem, error)
}

type Catalog struct {
	db     *sql.DB
	cache  *database.RedisClient
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

var _ MenuProvider = (*Catalog)(nil)

// NewCatalog reads the menu from db. cache may be nil, in which case every
// call goes to Postgres.
func NewCatalog(db *sql.DB, cache *database.RedisClient, cfg config.MenuConfig, log logger.Logger) *Catalog {
	prefix := cfg.CacheKeyPrefix
	if prefix == "" {
		prefix = "menu"
	}
	ttl := config.GetDuration(cfg.CacheTTL)
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

func (c *Catalog) cacheKey(category string) string {
	if category == "" {
		return c.prefix + ":available"
	}
	return c.prefix + ":available:" + category
}

// Available returns the available menu, optionally restricted to one
// category, ordered by category then name.
func (c *Catalog) Available(ctx context.Context, category string) ([]models.MenuItem, error) {
	key := c.cacheKey(category)

	if items, ok := c.fromCache(ctx, key); ok {
		return items, nil
	}

	items, err := c.load(ctx, category)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, items)
	return items, nil
}

// Invalidate drops every cached menu key.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	removed, err := c.cache.DelPrefix(ctx, c.prefix+":")
	if err != nil {
		return err
	}
	c.logger.Info("menu cache invalidated", map[string]interface{}{"keys": removed})
	return nil
}

func (c *Catalog) fromCache(ctx context.Context, key string) ([]models.MenuItem, bool) {
	if c.cache == nil {
		return nil, false
	}

	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("menu cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false
	}

	var items []models.MenuItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warn("menu cache entry is corrupt", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}

	c.logger.Debug("menu cache hit", map[string]interface{}{"key": key, "items": len(items)})
	return items, true
}

func (c *Catalog) store(ctx context.Context, key string, items []models.MenuItem) {
	if c.cache == nil {
		return
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logger.Warn("menu cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (c *Catalog) load(ctx context.Context, category string) ([]models.MenuItem, error) {
	return LoadMenu(ctx, c.db, category)
}

// LoadMenu reads the available menu straight from Postgres, bypassing any
// cache. An empty category returns every category.
func LoadMenu(ctx context.Context, db *sql.DB, category string) ([]models.MenuItem, error) {
	query := menuQuery
	var args []interface{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query menu: %w", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read menu rows: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenuItem(row rowScanner) (models.MenuItem, error) {
	var (
		item        models.MenuItem
		description sql.NullString
	)
	err := row.Scan(
		&item.ItemID, &item.Name, &item.Category, &item.Price, &description, &item.Available,
		pq.Array(&item.Ingredients), pq.Array(&item.SizeAvailable), &item.Vegetarian, &item.Spicy,
	)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("scan menu item: %w", err)
	}
	item.Description = description.String
	return item, nil
}
