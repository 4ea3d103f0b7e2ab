package razorpay

import (
	"context"
	"errors"
	"fmt"

	razorpayclient "github.com/Apurer/go-gin-orders-api/internal/clients/http/razorpay"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// Provider implements the outbound payment port against Razorpay.
type Provider struct {
	client *razorpayclient.Client
}

// NewProvider wires a Razorpay HTTP client into a payment adapter.
func NewProvider(client *razorpayclient.Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) CreateOrder(ctx context.Context, req ports.CreateIntentRequest) (*domain.PaymentIntent, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("razorpay provider not configured")
	}
	order, err := p.client.CreateOrder(ctx, ToOrderRequest(req))
	if err != nil {
		return nil, translate(err)
	}
	return FromOrder(order), nil
}

func (p *Provider) FetchOrder(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("razorpay provider not configured")
	}
	order, err := p.client.FetchOrder(ctx, providerOrderID)
	if err != nil {
		return nil, translate(err)
	}
	return FromOrder(order), nil
}

// translate keeps transport errors unwrappable so deadlines stay detectable.
func translate(err error) error {
	var apiErr *razorpayclient.APIError
	if errors.As(err, &apiErr) {
		return &ports.ProviderError{
			StatusCode:  apiErr.StatusCode,
			Code:        apiErr.Code,
			Description: apiErr.Description,
		}
	}
	return fmt.Errorf("%w: %w", ports.ErrProviderFailure, err)
}

var _ ports.PaymentProvider = (*Provider)(nil)
