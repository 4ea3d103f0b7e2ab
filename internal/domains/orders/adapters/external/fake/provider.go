// Package fake is an in-process payment provider for tests and contract verification.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

var _ ports.PaymentProvider = (*Provider)(nil)

// Provider records intents in memory and mints sequential provider order ids.
type Provider struct {
	mu      sync.Mutex
	intents map[string]*domain.PaymentIntent
	seq      int
	failure  error
	blocked  bool
	requests []ports.CreateIntentRequest
}

func NewProvider() *Provider {
	return &Provider{intents: map[string]*domain.PaymentIntent{}}
}

// FailWith makes every subsequent call return err until it is cleared with nil.
func (p *Provider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failure = err
}

// Block makes every subsequent call wait until its context ends, the way an
// unresponsive provider would.
func (p *Provider) Block(blocked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocked = blocked
}

// Requests returns the create-order requests received so far.
func (p *Provider) Requests() []ports.CreateIntentRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.CreateIntentRequest(nil), p.requests...)
}

// Seed registers an existing provider order.
func (p *Provider) Seed(intent domain.PaymentIntent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clone := intent
	p.intents[intent.ProviderOrderID] = &clone
}

// Reset forgets every intent and clears any failure.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents = map[string]*domain.PaymentIntent{}
	p.failure = nil
	p.blocked = false
	p.requests = nil
}

func (p *Provider) wait(ctx context.Context) error {
	p.mu.Lock()
	blocked := p.blocked
	p.mu.Unlock()
	if blocked {
		<-ctx.Done()
	}
	return ctx.Err()
}

func (p *Provider) CreateOrder(ctx context.Context, req ports.CreateIntentRequest) (*domain.PaymentIntent, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.failure != nil {
		return nil, p.failure
	}
	p.seq++
	intent := &domain.PaymentIntent{
		ProviderOrderID: fmt.Sprintf("order_fake%06d", p.seq),
		Amount:          req.Amount,
		Currency:        req.Currency,
		Receipt:         req.Receipt,
		Status:          "created",
	}
	p.intents[intent.ProviderOrderID] = intent
	clone := *intent
	return &clone, nil
}

func (p *Provider) FetchOrder(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failure != nil {
		return nil, p.failure
	}
	intent, ok := p.intents[providerOrderID]
	if !ok {
		return nil, &ports.ProviderError{StatusCode: 400, Code: "BAD_REQUEST_ERROR", Description: "The id provided does not exist"}
	}
	clone := *intent
	return &clone, nil
}
