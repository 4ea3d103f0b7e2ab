package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartports "github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// SaveInput describes an order about to be recorded. When Quote is nil the lines are
// priced again and Total must agree with the result.
type SaveInput struct {
	UserID          string
	Lines           []domain.LineRequest
	Total           int64
	PaymentID       string
	ProviderOrderID string
	Currency        string
	Status          domain.Status
	Quote           *Quote
}

// Ledger records reconciled orders and hands off cart cleanup once they are durable.
type Ledger struct {
	repo      ports.Repository
	pricer    *Pricer
	scheduler cartports.CleanupScheduler
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// LedgerOption customises the ledger.
type LedgerOption func(*Ledger)

// WithLedgerLogger sets the logger used for cleanup hand-off failures.
func WithLedgerLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLedgerClock overrides the time source for deterministic testing.
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides how order ids are minted.
func WithIDGenerator(fn func() string) LedgerOption {
	return func(l *Ledger) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// NewLedger wires the ledger. A nil scheduler disables cart cleanup.
func NewLedger(repo ports.Repository, pricer *Pricer, scheduler cartports.CleanupScheduler, opts ...LedgerOption) *Ledger {
	if scheduler == nil {
		scheduler = cartports.NoopCleanupScheduler
	}
	l := &Ledger{
		repo:      repo,
		pricer:    pricer,
		scheduler: scheduler,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Save persists the order. It fails with ErrDuplicateOrder when the provider order and
// payment pair was already recorded, and nothing is written in that case. Cart cleanup
// is scheduled only after the insert commits; a cleanup failure never fails the save.
func (l *Ledger) Save(ctx context.Context, input SaveInput) (*domain.Order, error) {
	if l == nil || l.repo == nil {
		return nil, errors.New("order ledger not configured")
	}
	quote := input.Quote
	if quote == nil {
		if l.pricer == nil {
			return nil, errors.New("order ledger has no pricer")
		}
		priced, err := l.pricer.Price(ctx, input.Lines, nil)
		if err != nil {
			return nil, err
		}
		if priced.Total != input.Total {
			return nil, fmt.Errorf("%w: expected %s, got %s", ErrTotalMismatch,
				domain.FromMinor(priced.Total, priced.Currency).String(),
				domain.FromMinor(input.Total, priced.Currency).String())
		}
		quote = priced
	}
	currency := input.Currency
	if currency == "" {
		currency = quote.Currency
	}

	order, err := domain.NewOrder(l.newID(), input.UserID, quote.Lines, quote.Total,
		input.PaymentID, input.ProviderOrderID, currency, input.Status, l.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := l.repo.Create(ctx, order)
	if err != nil {
		return nil, storageError("create order", err)
	}

	req := cartports.CleanupRequest{UserID: saved.UserID, OrderID: saved.ID, Cutoff: saved.CreatedAt}
	if err := l.scheduler.Schedule(ctx, req); err != nil {
		l.logger.WarnContext(ctx, "cart cleanup not scheduled",
			slog.String("order_id", saved.ID),
			slog.String("user_id", saved.UserID),
			slog.String("error", err.Error()),
		)
	}
	return saved, nil
}
