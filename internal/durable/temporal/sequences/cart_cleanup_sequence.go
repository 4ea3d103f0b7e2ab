package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	cartports "github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	cartactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/carts"
)

// CartCleanupRetryPolicy backs off for roughly ten minutes before giving up.
var CartCleanupRetryPolicy = temporal.RetryPolicy{
	InitialInterval:    2 * time.Second,
	BackoffCoefficient: 2.0,
	MaximumInterval:    time.Minute,
	MaximumAttempts:    12,
}

// RunCartCleanupSequence clears the cart lines settled by an order.
func RunCartCleanupSequence(ctx workflow.Context, req cartports.CleanupRequest) (*cartactivities.ClearCartResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("cart cleanup sequence started", "userId", req.UserID, "orderId", req.OrderID)
	policy := CartCleanupRetryPolicy
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy:         &policy,
	})

	var result cartactivities.ClearCartResult
	if err := workflow.ExecuteActivity(ctx, cartactivities.ClearCartActivityName, req).Get(ctx, &result); err != nil {
		logger.Error("cart cleanup sequence failed", "userId", req.UserID, "orderId", req.OrderID, "error", err)
		return nil, err
	}
	logger.Info("cart cleanup sequence completed", "userId", req.UserID, "linesRemoved", result.LinesRemoved)
	return &result, nil
}
