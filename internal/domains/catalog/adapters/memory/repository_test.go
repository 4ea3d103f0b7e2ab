package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/ports"
)

func mustItem(t *testing.T, id string, price int64) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(id, "Item "+id, "", decimal.NewFromInt(price), 4, "")
	require.NoError(t, err)
	return item
}

func mustRepository(t *testing.T, items ...*domain.Item) *Repository {
	t.Helper()
	repo, err := NewRepository(items...)
	require.NoError(t, err)
	return repo
}

func TestResolve_ReturnsAllRequested(t *testing.T) {
	repo := mustRepository(t, mustItem(t, "0001", 99), mustItem(t, "0002", 199))

	items, err := repo.Resolve(context.Background(), []string{"0001", "0002"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotZero(t, items["0001"].ID)
	require.True(t, items["0002"].Price.Equal(decimal.NewFromInt(199)))
}

func TestResolve_ListsEveryMissingID(t *testing.T) {
	repo := mustRepository(t, mustItem(t, "0001", 99))

	_, err := repo.Resolve(context.Background(), []string{"9999", "0001", "0404", "9999"})
	require.ErrorIs(t, err, ports.ErrNotFound)
	var notFound *ports.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, []string{"0404", "9999"}, notFound.IDs)
}

func TestUpsert_KeepsInternalID(t *testing.T) {
	repo := mustRepository(t, mustItem(t, "0001", 99))
	before, err := repo.Resolve(context.Background(), []string{"0001"})
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(context.Background(), []*domain.Item{mustItem(t, "0001", 109)}))
	after, err := repo.Resolve(context.Background(), []string{"0001"})
	require.NoError(t, err)
	require.Equal(t, before["0001"].ID, after["0001"].ID)
	require.True(t, after["0001"].Price.Equal(decimal.NewFromInt(109)))
}

func TestNewRepository_RejectsInvalidSeed(t *testing.T) {
	broken := mustItem(t, "0002", 199)
	broken.Price = decimal.NewFromInt(-1)

	repo, err := NewRepository(mustItem(t, "0001", 99), broken)
	require.ErrorIs(t, err, domain.ErrNegativePrice)
	require.Nil(t, repo)

	_, err = NewRepository(nil)
	require.ErrorContains(t, err, "nil")
}

func TestUpsert_InvalidBatchLeavesCatalogUntouched(t *testing.T) {
	repo := mustRepository(t, mustItem(t, "0001", 99))
	broken := mustItem(t, "0003", 10)
	broken.Title = ""

	require.ErrorIs(t, repo.Upsert(context.Background(), []*domain.Item{mustItem(t, "0002", 199), broken}), domain.ErrEmptyTitle)
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
}
