//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderspostgres "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-orders-api/internal/platform/postgres/postgrestest"
)

func buildOrder(t *testing.T, id, user, providerOrderID, paymentID string, createdAt time.Time) *domain.Order {
	t.Helper()
	lines := []domain.OrderLine{
		{CatalogItemID: 1, ItemID: "0001", Title: "Crispy Chicken", UnitPrice: 9900, Quantity: 2},
		{CatalogItemID: 2, ItemID: "0002", Title: "Ultimate Bacon", UnitPrice: 19900, Quantity: 1},
	}
	order, err := domain.NewOrder(id, user, lines, 39700, paymentID, providerOrderID, "INR", domain.StatusCompleted, createdAt)
	require.NoError(t, err)
	return order
}

func TestPostgresRepository_CreateAndGetByID(t *testing.T) {
	db := postgrestest.Start(t)
	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	saved, err := repo.Create(ctx, buildOrder(t, "6a0b3c1e-0000-4000-8000-000000000001", "u1", "order_1", "pay_1", createdAt))
	require.NoError(t, err)
	assert.Equal(t, int64(39700), saved.Total)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.True(t, createdAt.Equal(got.CreatedAt))
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "0001", got.Lines[0].ItemID)
	assert.Equal(t, int64(19900), got.Lines[1].UnitPrice)

	var itemIDs []string
	require.NoError(t, db.Raw("SELECT unnest(item_ids) FROM orders WHERE id = ?", saved.ID).Scan(&itemIDs).Error)
	assert.Equal(t, []string{"0001", "0002"}, itemIDs)

	_, err = repo.GetByID(ctx, "6a0b3c1e-0000-4000-8000-0000000000ff")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_DuplicateReconciliationKey(t *testing.T) {
	db := postgrestest.Start(t)
	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, buildOrder(t, "6a0b3c1e-0000-4000-8000-000000000001", "u1", "order_1", "pay_1", time.Now()))
	require.NoError(t, err)

	_, err = repo.Create(ctx, buildOrder(t, "6a0b3c1e-0000-4000-8000-000000000002", "u1", "order_1", "pay_1", time.Now()))
	require.ErrorIs(t, err, ports.ErrDuplicateOrder)

	var lines int64
	require.NoError(t, db.Table("order_lines").Count(&lines).Error)
	assert.Equal(t, int64(2), lines, "losing insert must not leave lines behind")
}

func TestPostgresRepository_ConcurrentDuplicates(t *testing.T) {
	db := postgrestest.Start(t)
	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("6a0b3c1e-0000-4000-8000-%012d", i)
			_, errs[i] = repo.Create(ctx, buildOrder(t, id, "u1", "order_x", "pay_x", time.Now()))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ports.ErrDuplicateOrder)
	}
	assert.Equal(t, 1, successes)
}

func TestPostgresRepository_ListByUserNewestFirst(t *testing.T) {
	db := postgrestest.Start(t)
	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("6a0b3c1e-0000-4000-8000-%012d", i)
		_, err := repo.Create(ctx, buildOrder(t, id, "u1", fmt.Sprintf("order_%d", i), "pay", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, buildOrder(t, "6a0b3c1e-0000-4000-8000-000000000099", "u2", "order_u2", "pay", base))
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "u1", ports.ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "order_2", list[0].ProviderOrderID)
	assert.Equal(t, "order_1", list[1].ProviderOrderID)
	assert.Len(t, list[0].Lines, 2)

	list, err = repo.ListByUser(ctx, "u1", ports.ListFilter{Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, list)
}
