package carts

import (
	"go.temporal.io/sdk/workflow"

	cartports "github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	cartactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/carts"
	"github.com/Apurer/go-gin-orders-api/internal/durable/temporal/sequences"
)

const (
	// CartCleanupWorkflowName is the public identifier for registering the workflow.
	CartCleanupWorkflowName = "carts.workflows.Cleanup"
	// CartCleanupTaskQueue is the queue consumed by the worker processing cart workflows.
	CartCleanupTaskQueue = "CART_CLEANUP"
)

// CartCleanupWorkflowInput carries the cleanup request and the originating trace.
type CartCleanupWorkflowInput struct {
	Request cartports.CleanupRequest
	TraceID string
}

// CartCleanupWorkflow clears a user's cart after an order has been persisted.
func CartCleanupWorkflow(ctx workflow.Context, input CartCleanupWorkflowInput) (*cartactivities.ClearCartResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CartCleanupWorkflow started", withTraceID(input.TraceID, "userId", input.Request.UserID, "orderId", input.Request.OrderID)...)
	result, err := sequences.RunCartCleanupSequence(ctx, input.Request)
	if err != nil {
		logger.Error("CartCleanupWorkflow failed", withTraceID(input.TraceID, "userId", input.Request.UserID, "error", err)...)
		return nil, err
	}
	logger.Info("CartCleanupWorkflow completed", withTraceID(input.TraceID, "userId", input.Request.UserID, "linesRemoved", result.LinesRemoved)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
