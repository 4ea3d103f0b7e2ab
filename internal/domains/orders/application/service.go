package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

const (
	// DefaultListLimit applies when a caller does not bound the history.
	DefaultListLimit = 50
	// MaxListLimit caps a single history page.
	MaxListLimit = 200
)

// Dependencies groups the collaborators of the orders service.
type Dependencies struct {
	Repository ports.Repository
	Pricer     *Pricer
	Gateway    *Gateway
	Ledger     *Ledger
	// SigningSecret is the provider key secret used to verify payment confirmations.
	SigningSecret string
}

// Service orchestrates order reconciliation use cases.
type Service struct {
	repo               ports.Repository
	pricer             *Pricer
	gateway            *Gateway
	ledger             *Ledger
	secret             string
	verifyIntentAmount bool
}

// Option customises the service.
type Option func(*Service)

// WithIntentAmountCheck toggles reading the provider order back during verification and
// requiring its amount to equal the server total.
func WithIntentAmountCheck(enabled bool) Option {
	return func(s *Service) { s.verifyIntentAmount = enabled }
}

// NewService wires the orders service with its dependencies.
func NewService(deps Dependencies, opts ...Option) *Service {
	s := &Service{
		repo:               deps.Repository,
		pricer:             deps.Pricer,
		gateway:            deps.Gateway,
		ledger:             deps.Ledger,
		secret:             deps.SigningSecret,
		verifyIntentAmount: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder records an order for a payment the client reports as already made. The
// total is always computed from the catalog and the order is stored as pending.
func (s *Service) CreateOrder(ctx context.Context, input ports.DirectOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, mapError(domain.ErrEmptyUser)
	}
	if strings.TrimSpace(input.PaymentID) == "" {
		return nil, mapError(domain.ErrEmptyPaymentID)
	}
	if strings.TrimSpace(input.ProviderOrderID) == "" {
		return nil, mapError(domain.ErrEmptyProviderOrderID)
	}
	if err := s.checkCurrency(input.Currency); err != nil {
		return nil, err
	}
	quote, err := s.pricer.Price(ctx, input.Lines, nil)
	if err != nil {
		return nil, err
	}
	return s.ledger.Save(ctx, SaveInput{
		UserID:          input.UserID,
		Lines:           input.Lines,
		Total:           quote.Total,
		PaymentID:       input.PaymentID,
		ProviderOrderID: input.ProviderOrderID,
		Currency:        quote.Currency,
		Status:          domain.StatusPending,
		Quote:           quote,
	})
}

// CreatePaymentIntent opens a provider order the client can pay against. Nothing is
// persisted locally.
func (s *Service) CreatePaymentIntent(ctx context.Context, input ports.PaymentIntentInput) (*domain.PaymentIntent, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, mapError(domain.ErrEmptyUser)
	}
	return s.gateway.CreateIntent(ctx, input.Amount, input.Currency, input.Receipt, map[string]string{"user_id": userID})
}

// VerifyAndSave checks the provider signature before anything else, prices the lines
// against the claimed total and records a completed order.
func (s *Service) VerifyAndSave(ctx context.Context, input ports.VerifyAndSaveInput) (*domain.Order, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, mapError(domain.ErrEmptyUser)
	}
	conf := domain.PaymentConfirmation{
		ProviderOrderID:   strings.TrimSpace(input.Confirmation.ProviderOrderID),
		ProviderPaymentID: strings.TrimSpace(input.Confirmation.ProviderPaymentID),
		Signature:         strings.TrimSpace(input.Confirmation.Signature),
	}
	if conf.ProviderOrderID == "" {
		return nil, mapError(domain.ErrEmptyProviderOrderID)
	}
	if conf.ProviderPaymentID == "" {
		return nil, mapError(domain.ErrEmptyPaymentID)
	}
	if conf.Signature == "" {
		return nil, fmt.Errorf("%w: signature is required", ErrValidation)
	}
	if !VerifySignature(conf, s.secret) {
		return nil, ErrInvalidSignature
	}
	if err := s.checkCurrency(input.Currency); err != nil {
		return nil, err
	}

	claimed := input.ClaimedTotal
	quote, err := s.pricer.Price(ctx, input.Lines, &claimed)
	if err != nil {
		return nil, err
	}
	if s.verifyIntentAmount {
		intent, err := s.gateway.FetchIntent(ctx, conf.ProviderOrderID)
		if err != nil {
			return nil, err
		}
		if intent.Amount != quote.Total {
			return nil, fmt.Errorf("%w: provider order amount %s, cart total %s", ErrTotalMismatch,
				domain.FromMinor(intent.Amount, quote.Currency).String(),
				domain.FromMinor(quote.Total, quote.Currency).String())
		}
	}

	return s.ledger.Save(ctx, SaveInput{
		UserID:          input.UserID,
		Lines:           input.Lines,
		Total:           quote.Total,
		PaymentID:       conf.ProviderPaymentID,
		ProviderOrderID: conf.ProviderOrderID,
		Currency:        quote.Currency,
		Status:          domain.StatusCompleted,
		Quote:           quote,
	})
}

// ListOrders returns the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string, filter ports.ListFilter) ([]*domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, mapError(domain.ErrEmptyUser)
	}
	if filter.Status != "" && !domain.IsValidStatus(filter.Status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	switch {
	case filter.Limit < 0:
		return nil, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	case filter.Limit == 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	if s.repo == nil {
		return nil, errors.New("order repository not configured")
	}
	orders, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, storageError("list orders", err)
	}
	return orders, nil
}

func (s *Service) checkCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == s.pricer.currency {
		return nil
	}
	return fmt.Errorf("%w: unsupported currency %q", ErrValidation, currency)
}

var _ ports.Service = (*Service)(nil)
