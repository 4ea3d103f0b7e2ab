package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// DirectOrderInput is flow A: the client asserts a payment that already happened.
type DirectOrderInput struct {
	UserID          string
	Lines           []domain.LineRequest
	PaymentID       string
	ProviderOrderID string
	Currency        string
}

// PaymentIntentInput is flow B step 1. Amount is in minor units.
type PaymentIntentInput struct {
	UserID   string
	Amount   int64
	Currency string
	Receipt  string
}

// VerifyAndSaveInput is flow B step 2. ClaimedTotal is in major units.
type VerifyAndSaveInput struct {
	UserID       string
	Confirmation domain.PaymentConfirmation
	Lines        []domain.LineRequest
	ClaimedTotal decimal.Decimal
	Currency     string
}

// Service exposes reconciliation use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input DirectOrderInput) (*domain.Order, error)
	CreatePaymentIntent(ctx context.Context, input PaymentIntentInput) (*domain.PaymentIntent, error)
	VerifyAndSave(ctx context.Context, input VerifyAndSaveInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string, filter ListFilter) ([]*domain.Order, error)
}
