package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// ErrProviderFailure is the root of every error the payment provider reports.
var ErrProviderFailure = errors.New("payment provider error")

// ProviderError carries the provider's diagnostic for a failed call. StatusCode is zero
// when the request never got a response.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %d %s: %s", ErrProviderFailure.Error(), e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("%s: %d: %s", ErrProviderFailure.Error(), e.StatusCode, e.Description)
}

func (e *ProviderError) Unwrap() error { return ErrProviderFailure }

// CreateIntentRequest is sent to the payment provider to open an order.
type CreateIntentRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// PaymentProvider is the outbound port to the payment processor.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, req CreateIntentRequest) (*domain.PaymentIntent, error)
	FetchOrder(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error)
}
