package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

const (
	// DefaultMinimumAmount is the smallest intent the provider accepts, in minor units.
	DefaultMinimumAmount int64 = 100
	// DefaultProviderTimeout bounds a single provider call.
	DefaultProviderTimeout = 5 * time.Second
	// maxReceiptLength is the provider's limit on receipt references.
	maxReceiptLength = 40
)

// Gateway fronts the payment provider with input checks and a per-call deadline.
// Calls are never retried; creating an intent is not idempotent on the provider side.
type Gateway struct {
	provider      ports.PaymentProvider
	currency      string
	minimumAmount int64
	timeout       time.Duration
	newReceipt    func() string
}

// GatewayOption customises the gateway.
type GatewayOption func(*Gateway)

// WithMinimumAmount overrides the smallest accepted intent amount.
func WithMinimumAmount(minor int64) GatewayOption {
	return func(g *Gateway) {
		if minor > 0 {
			g.minimumAmount = minor
		}
	}
}

// WithProviderTimeout overrides the per-call deadline.
func WithProviderTimeout(timeout time.Duration) GatewayOption {
	return func(g *Gateway) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithReceiptGenerator overrides how default receipts are minted.
func WithReceiptGenerator(fn func() string) GatewayOption {
	return func(g *Gateway) {
		if fn != nil {
			g.newReceipt = fn
		}
	}
}

// NewGateway wires a provider for the configured settlement currency.
func NewGateway(provider ports.PaymentProvider, currency string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		provider:      provider,
		currency:      strings.ToUpper(strings.TrimSpace(currency)),
		minimumAmount: DefaultMinimumAmount,
		timeout:       DefaultProviderTimeout,
		newReceipt:    DefaultReceipt,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DefaultReceipt returns a unique receipt reference that fits the provider's length limit.
func DefaultReceipt() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Currency reports the settlement currency.
func (g *Gateway) Currency() string { return g.currency }

// CreateIntent opens a provider order for amount minor units.
func (g *Gateway) CreateIntent(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*domain.PaymentIntent, error) {
	if g == nil || g.provider == nil {
		return nil, errors.New("payment gateway not configured")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = g.currency
	}
	if currency != g.currency {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrValidation, currency)
	}
	if amount < g.minimumAmount {
		return nil, fmt.Errorf("%w: amount must be at least %d minor units", ErrValidation, g.minimumAmount)
	}
	receipt = strings.TrimSpace(receipt)
	if receipt == "" {
		receipt = g.newReceipt()
	}
	if len(receipt) > maxReceiptLength {
		return nil, fmt.Errorf("%w: receipt longer than %d characters", ErrValidation, maxReceiptLength)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	intent, err := g.provider.CreateOrder(callCtx, ports.CreateIntentRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, g.providerError(callCtx, err)
	}
	if intent == nil || intent.ProviderOrderID == "" {
		return nil, &ProviderError{Description: "provider returned no order id"}
	}
	return intent, nil
}

// FetchIntent reads back a provider order.
func (g *Gateway) FetchIntent(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error) {
	if g == nil || g.provider == nil {
		return nil, errors.New("payment gateway not configured")
	}
	if strings.TrimSpace(providerOrderID) == "" {
		return nil, mapError(domain.ErrEmptyProviderOrderID)
	}
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	intent, err := g.provider.FetchOrder(callCtx, providerOrderID)
	if err != nil {
		return nil, g.providerError(callCtx, err)
	}
	if intent == nil {
		return nil, &ProviderError{Description: "provider returned no order for " + providerOrderID}
	}
	return intent, nil
}

func (g *Gateway) providerError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrPaymentProviderTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: no response within %s", ErrPaymentProviderTimeout, g.timeout)
	case errors.Is(err, ErrPaymentProviderError):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrPaymentProviderError, err)
	}
}
