package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateOrder is returned when an order already exists for the same provider
	// order id and payment id.
	ErrDuplicateOrder = errors.New("order already recorded for this payment")
)

// ListFilter narrows a user's order history.
type ListFilter struct {
	Status domain.Status
	Limit  int
}

// Repository persists orders. Implementations must enforce uniqueness of
// (ProviderOrderID, PaymentID) atomically and return ErrDuplicateOrder on conflict.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]*domain.Order, error)
}
