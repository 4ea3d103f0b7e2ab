package ports

import (
	"context"
	"time"
)

// Line is a cart entry as far as order finalization is concerned.
type Line struct {
	UserID        string
	CatalogItemID int64
	Quantity      int
	AddedAt       time.Time
}

// Store is the slice of the cart service this subsystem consumes.
type Store interface {
	// ClearBefore removes the user's cart lines added at or before cutoff and reports how many were removed.
	ClearBefore(ctx context.Context, userID string, cutoff time.Time) (int64, error)
}

// CleanupRequest asks for a user's cart to be cleared after an order was persisted.
type CleanupRequest struct {
	UserID  string
	OrderID string
	Cutoff  time.Time
}

// CleanupScheduler runs cart cleanup outside the order-save path. Schedule only reports
// failures to hand the request off; failures of the clear itself are retried and logged
// by the implementation.
type CleanupScheduler interface {
	Schedule(ctx context.Context, req CleanupRequest) error
}

// NoopCleanupScheduler is used when no cart store is wired.
var NoopCleanupScheduler CleanupScheduler = noopCleanupScheduler{}

type noopCleanupScheduler struct{}

func (noopCleanupScheduler) Schedule(_ context.Context, _ CleanupRequest) error { return nil }
