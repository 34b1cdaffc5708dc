package database

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-workers/internal/common/config"
)

func TestPostgresClient_InTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		client := NewPostgresFromDB(db)
		err = client.InTx(context.Background(), func(tx *sql.Tx) error {
			_, err := tx.Exec("UPDATE orders SET status = 'ready'")
			return err
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		client := NewPostgresFromDB(db)
		err = client.InTx(context.Background(), func(tx *sql.Tx) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisClient_DelPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "menu:available", "[]", 0))
	require.NoError(t, client.Set(ctx, "menu:available:Pizza", "[]", 0))
	require.NoError(t, client.Set(ctx, "session:1", "x", 0))

	removed, err := client.DelPrefix(ctx, "menu:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = client.Get(ctx, "menu:available")
	assert.ErrorIs(t, err, redis.Nil)

	val, err := client.Get(ctx, "session:1")
	require.NoError(t, err)
	assert.Equal(t, "x", val)
	assert.NoError(t, client.Ping(ctx))
}

func TestElasticsearchClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":{"number":"8.11.0"},"tagline":"You Know, for Search"}`))
	}))
	defer server.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: server.URL})
	require.NoError(t, err)

	assert.NoError(t, client.Ping())
	assert.NoError(t, client.Info(context.Background()))
}
