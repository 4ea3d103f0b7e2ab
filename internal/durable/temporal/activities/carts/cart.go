package carts

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	cartports "github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
)

const (
	// ClearCartActivityName removes the cart lines settled by an order.
	ClearCartActivityName = "carts.activities.ClearCart"
)

// ClearCartResult reports how many lines the activity removed.
type ClearCartResult struct {
	LinesRemoved int64
}

// Activities groups activities that operate on carts.
type Activities struct {
	store cartports.Store
}

// NewActivities wires the cart store into the Temporal activities bundle.
func NewActivities(store cartports.Store) *Activities {
	return &Activities{store: store}
}

// ClearCart deletes the user's cart lines up to the order cutoff. It is idempotent, so
// Temporal retries are safe.
func (a *Activities) ClearCart(ctx context.Context, req cartports.CleanupRequest) (*ClearCartResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.store == nil {
		logger.Error("clear cart activity not initialized", "userId", req.UserID)
		return nil, errors.New("clear cart activity not initialized")
	}
	logger.Info("ClearCart activity started", "userId", req.UserID, "orderId", req.OrderID)
	removed, err := a.store.ClearBefore(ctx, req.UserID, req.Cutoff)
	if err != nil {
		logger.Error("ClearCart activity failed", "userId", req.UserID, "orderId", req.OrderID, "error", err)
		return nil, err
	}
	logger.Info("ClearCart activity completed", "userId", req.UserID, "linesRemoved", removed)
	return &ClearCartResult{LinesRemoved: removed}, nil
}
