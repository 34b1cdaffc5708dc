// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-workers/internal/common/config"
	"restaurant-workers/internal/common/database"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/nlp"
	"restaurant-workers/internal/ordering"

	queryelasticsearch "restaurant-workers/internal/workers/data-access/query-elasticsearch"
	querypostgresql "restaurant-workers/internal/workers/data-access/query-postgresql"
	getmenu "restaurant-workers/internal/workers/ordering/get-menu"
	parseorder "restaurant-workers/internal/workers/ordering/parse-order"
	placeorder "restaurant-workers/internal/workers/ordering/place-order"
	updateorderstatus "restaurant-workers/internal/workers/ordering/update-order-status"
)

// env holds live connections. The suite runs only when RUN_E2E=1 and every
// dependency answers a ping.
type env struct {
	cfg     *config.Config
	pg      *database.PostgresClient
	redis   *database.RedisClient
	es      *database.ElasticsearchClient
	catalog *ordering.Catalog
	orders  *ordering.OrderStore
	chat    *ordering.ChatLog
	parser  *nlp.Parser
}

func setup(t *testing.T) *env {
	t.Helper()
	if os.Getenv("RUN_E2E") != "1" {
		t.Skip("set RUN_E2E=1 to run end-to-end tests against local services")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Skipf("config not available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil || pg.Ping(ctx) != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	t.Cleanup(func() { pg.Close() })

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil || rdb.Ping(ctx) != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil || es.Info(ctx) != nil {
		t.Skipf("elasticsearch not reachable: %v", err)
	}

	log := logger.NewTestLogger(t)
	e := &env{
		cfg:     cfg,
		pg:      pg,
		redis:   rdb,
		es:      es,
		catalog: ordering.NewCatalog(pg.GetDB(), rdb, cfg.Menu, log),
		orders:  ordering.NewOrderStore(pg, cfg.Orders.DefaultListLimit, cfg.Orders.MaxListLimit),
		chat:    ordering.NewChatLog(es.Client, cfg.Orders.ChatIndex),
		parser: nlp.NewParser(nlp.Config{
			Threshold:      cfg.NLP.Threshold,
			SpelledNumbers: cfg.NLP.SpelledNumbersEnabled(),
		}, nlp.WithLogger(log)),
	}

	createTables(t, e)
	require.NoError(t, e.chat.EnsureIndex(ctx))
	require.NoError(t, e.catalog.Invalidate(ctx))
	return e
}

func createTables(t *testing.T, e *env) {
	t.Helper()
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			item_id        VARCHAR(64) PRIMARY KEY,
			name           VARCHAR(255) NOT NULL,
			category       VARCHAR(100) NOT NULL,
			price          NUMERIC(10,2) NOT NULL,
			description    TEXT,
			available      BOOLEAN DEFAULT true,
			ingredients    TEXT[] DEFAULT '{}',
			size_available TEXT[] DEFAULT '{}',
			vegetarian     BOOLEAN DEFAULT false,
			spicy          BOOLEAN DEFAULT false
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id         VARCHAR(64) PRIMARY KEY,
			customer_name    VARCHAR(255) NOT NULL,
			customer_phone   VARCHAR(50),
			customer_email   VARCHAR(255),
			total_price      NUMERIC(10,2) NOT NULL,
			status           VARCHAR(20) NOT NULL,
			original_message TEXT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id          SERIAL PRIMARY KEY,
			order_id    VARCHAR(64) REFERENCES orders(order_id),
			item_id     VARCHAR(64) NOT NULL,
			name        VARCHAR(255) NOT NULL,
			quantity    NUMERIC(10,2) NOT NULL,
			unit_price  NUMERIC(10,2) NOT NULL,
			total_price NUMERIC(10,2) NOT NULL
		)`,
		`INSERT INTO menu_items (item_id, name, category, price, vegetarian)
		 VALUES ('e2e-pizza', 'pizza', 'main', 12.99, true),
		        ('e2e-coke', 'coke', 'drinks', 2.50, true),
		        ('e2e-burger', 'burger', 'main', 9.99, false)
		 ON CONFLICT (item_id) DO NOTHING`,
	}

	for _, stmt := range statements {
		_, err := e.pg.Exec(context.Background(), stmt)
		require.NoError(t, err)
	}
}

func TestOrderLifecycle(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	// place
	place := placeorder.NewHandler(placeorder.LoadConfig(e.cfg), placeorder.Dependencies{
		Parser: e.parser,
		Menu:   e.catalog,
		Orders: e.orders,
		Chat:   e.chat,
	}, log)

	placed, err := place.Execute(ctx, &placeorder.Input{
		Message: "I want 2 pizzas and 1 coke",
		User:    &models.Customer{Name: "E2E Customer", Email: "e2e@example.com"},
	})
	require.NoError(t, err)
	require.True(t, placed.Success)
	require.NotNil(t, placed.Order)
	assert.Equal(t, models.OrderStatusPending, placed.Order.Status)
	assert.InDelta(t, 28.48, placed.Order.TotalPrice, 0.001)
	orderID := placed.Order.OrderID

	// update status
	update := updateorderstatus.NewHandler(updateorderstatus.LoadConfig(e.cfg), e.orders, log)
	updated, err := update.Execute(ctx, &updateorderstatus.Input{OrderID: orderID, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)

	// read back through the query worker
	query := querypostgresql.NewHandler(querypostgresql.LoadConfig(e.cfg), e.pg.GetDB(), log)
	details, err := query.Execute(ctx, &querypostgresql.Input{
		QueryType: string(querypostgresql.QueryTypeOrderDetails),
		OrderID:   orderID,
	})
	require.NoError(t, err)
	order, ok := details.Data.(*models.Order)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Len(t, order.Items, 2)

	// chat history holds the user message and the confirmation
	search := queryelasticsearch.NewHandler(queryelasticsearch.LoadConfig(e.cfg), e.es.Client, log)
	history, err := search.Execute(ctx, &queryelasticsearch.Input{
		IndexName: e.chat.Index(),
		QueryType: "chat_history",
		OrderID:   orderID,
	})
	require.NoError(t, err)
	require.Len(t, history.Data, 2)
	assert.Equal(t, "user", history.Data[0].Sender)
	assert.Equal(t, "system", history.Data[1].Sender)
}

func TestMenuAndParse(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	menu := getmenu.NewHandler(getmenu.LoadConfig(e.cfg), e.catalog, log)
	first, err := menu.Execute(ctx, &getmenu.Input{Category: "drinks"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first.Count, 1)

	cached, err := menu.Execute(ctx, &getmenu.Input{Category: "drinks"})
	require.NoError(t, err)
	assert.Equal(t, first.Menu, cached.Menu)

	parse := parseorder.NewHandler(parseorder.LoadConfig(e.cfg), e.parser, e.catalog, nil, log)
	parsed, err := parse.Execute(ctx, &parseorder.Input{Message: "can i get three burgers"})
	require.NoError(t, err)
	assert.Equal(t, string(nlp.IntentOrderFood), parsed.Intent)
	assert.Contains(t, parsed.Items, "burger")
	assert.Equal(t, []float64{3}, parsed.Quantities)
}

func TestZeebeTopology(t *testing.T) {
	if os.Getenv("RUN_E2E") != "1" {
		t.Skip("set RUN_E2E=1 to run end-to-end tests against local services")
	}
	cfg, err := config.Load()
	if err != nil {
		t.Skipf("config not available: %v", err)
	}

	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
	})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		t.Skipf("zeebe not reachable: %v", err)
	}
}

func BenchmarkParser_Parse(b *testing.B) {
	parser := nlp.NewParser(nlp.Config{Threshold: 75, SpelledNumbers: true})
	menu := []string{"pizza", "burger", "pasta", "salad", "coke", "fries", "chicken wings"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		parser.Parse(context.Background(), "I'd like two pizzas, 3 cokes and a large fries please", menu)
	}
}
