package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/memory"
	cartports "github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	catalogmemory "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/seed"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/external/fake"
	ordermemory "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

const testSecret = "EnLs21M47BllR3X8PSFtjtbd"

// seedIntent registers a provider order the way checkout would have created it.
func seedIntent(p *fake.Provider, id string, amount int64) {
	p.Seed(domain.PaymentIntent{ProviderOrderID: id, Amount: amount, Currency: domain.CurrencyINR, Status: "paid"})
}

type recordingScheduler struct {
	mu       sync.Mutex
	requests []cartports.CleanupRequest
}

func (s *recordingScheduler) Schedule(_ context.Context, req cartports.CleanupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *recordingScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type harness struct {
	svc       *Service
	repo      *ordermemory.Repository
	provider  *fake.Provider
	scheduler *recordingScheduler
	carts     *cartmemory.Store
	now       time.Time
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	items, err := seed.DefaultMenu("")
	require.NoError(t, err)
	catalog, err := catalogmemory.NewRepository(items...)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h := &harness{
		repo:      ordermemory.NewRepository(),
		provider:  fake.NewProvider(),
		scheduler: &recordingScheduler{},
		carts:     cartmemory.NewStore(),
		now:       now,
	}
	pricer := NewPricer(catalog, domain.CurrencyINR)
	gateway := NewGateway(h.provider, domain.CurrencyINR, WithProviderTimeout(200*time.Millisecond))
	ledger := NewLedger(h.repo, pricer, h.scheduler, WithLedgerClock(func() time.Time { return h.now }))
	h.svc = NewService(Dependencies{
		Repository:    h.repo,
		Pricer:        pricer,
		Gateway:       gateway,
		Ledger:        ledger,
		SigningSecret: testSecret,
	}, opts...)
	return h
}

func lines(pairs ...any) []domain.LineRequest {
	out := make([]domain.LineRequest, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.LineRequest{ItemID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}
