//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartspostgres "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	"github.com/Apurer/go-gin-orders-api/internal/platform/postgres/postgrestest"
)

func TestPostgresCartStore_ClearBefore(t *testing.T) {
	db := postgrestest.Start(t)
	store := cartspostgres.NewStore(db)
	ctx := context.Background()
	cutoff := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Add(ctx, ports.Line{UserID: "u1", CatalogItemID: 1, Quantity: 2, AddedAt: cutoff.Add(-time.Minute)}))
	require.NoError(t, store.Add(ctx, ports.Line{UserID: "u1", CatalogItemID: 2, Quantity: 1, AddedAt: cutoff.Add(time.Minute)}))
	require.NoError(t, store.Add(ctx, ports.Line{UserID: "u2", CatalogItemID: 1, Quantity: 1, AddedAt: cutoff.Add(-time.Minute)}))

	removed, err := store.ClearBefore(ctx, "u1", cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining int64
	require.NoError(t, db.Table("cart_items").Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestPostgresCartStore_SweepSettled(t *testing.T) {
	db := postgrestest.Start(t)
	store := cartspostgres.NewStore(db)
	ctx := context.Background()
	orderAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Exec(`INSERT INTO orders (id, user_id, item_ids, total_minor, currency, payment_id, provider_order_id, status, created_at)
		VALUES ('o1', 'u1', '{0001}', 9900, 'INR', 'pay_1', 'order_1', 'completed', ?)`, orderAt).Error)
	require.NoError(t, store.Add(ctx, ports.Line{UserID: "u1", CatalogItemID: 1, Quantity: 1, AddedAt: orderAt.Add(-time.Minute)}))
	require.NoError(t, store.Add(ctx, ports.Line{UserID: "u1", CatalogItemID: 2, Quantity: 1, AddedAt: orderAt.Add(time.Minute)}))
	require.NoError(t, store.Add(ctx, ports.Line{UserID: "u3", CatalogItemID: 2, Quantity: 1, AddedAt: orderAt.Add(-time.Hour)}))

	swept, err := store.SweepSettled(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)
}
