package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/memory"
	"github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
)

func fastBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
}

func TestInlineScheduler_ClearsLinesUpToCutoff(t *testing.T) {
	store := cartmemory.NewStore()
	cutoff := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Add(context.Background(), ports.Line{UserID: "u1", CatalogItemID: 1, Quantity: 2, AddedAt: cutoff.Add(-time.Minute)})
	store.Add(context.Background(), ports.Line{UserID: "u1", CatalogItemID: 2, Quantity: 1, AddedAt: cutoff.Add(time.Minute)})

	scheduler := NewInlineScheduler(store, WithBackOff(fastBackOff))
	require.NoError(t, scheduler.Schedule(context.Background(), ports.CleanupRequest{UserID: "u1", OrderID: "o1", Cutoff: cutoff}))
	scheduler.Wait()

	remaining := store.Lines(context.Background(), "u1")
	require.Len(t, remaining, 1)
	require.Equal(t, int64(2), remaining[0].CatalogItemID)
}

func TestInlineScheduler_RetriesTransientFailures(t *testing.T) {
	store := cartmemory.NewStore()
	store.Add(context.Background(), ports.Line{UserID: "u1", CatalogItemID: 1, Quantity: 1})
	store.FailNext(2)

	scheduler := NewInlineScheduler(store, WithBackOff(fastBackOff))
	require.NoError(t, scheduler.Schedule(context.Background(), ports.CleanupRequest{UserID: "u1", Cutoff: time.Now()}))
	scheduler.Wait()

	require.Empty(t, store.Lines(context.Background(), "u1"))
}

func TestInlineScheduler_GivesUpWithoutPanicking(t *testing.T) {
	store := cartmemory.NewStore()
	store.Add(context.Background(), ports.Line{UserID: "u1", CatalogItemID: 1, Quantity: 1})
	store.FailNext(10)

	scheduler := NewInlineScheduler(store, WithBackOff(fastBackOff))
	require.NoError(t, scheduler.Schedule(context.Background(), ports.CleanupRequest{UserID: "u1", Cutoff: time.Now()}))
	scheduler.Wait()

	require.Len(t, store.Lines(context.Background(), "u1"), 1)
}

func TestInlineScheduler_SurvivesCallerCancellation(t *testing.T) {
	store := cartmemory.NewStore()
	store.Add(context.Background(), ports.Line{UserID: "u1", CatalogItemID: 1, Quantity: 1})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler := NewInlineScheduler(store, WithBackOff(fastBackOff))
	require.NoError(t, scheduler.Schedule(ctx, ports.CleanupRequest{UserID: "u1", Cutoff: time.Now()}))
	cancel()
	scheduler.Wait()

	require.Empty(t, store.Lines(context.Background(), "u1"))
}

func TestInlineScheduler_RequiresUser(t *testing.T) {
	scheduler := NewInlineScheduler(cartmemory.NewStore())
	require.Error(t, scheduler.Schedule(context.Background(), ports.CleanupRequest{}))
}
