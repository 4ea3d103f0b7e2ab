package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	cartworkflows "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/workflows/carts"
)

var _ ports.CleanupScheduler = (*TemporalScheduler)(nil)

// TemporalScheduler hands cart cleanup to a durable Temporal workflow. The workflow owns
// retries; Schedule does not wait for it to finish.
type TemporalScheduler struct {
	client    client.Client
	taskQueue string
	fallback  ports.CleanupScheduler
	logger    *slog.Logger
}

// NewTemporalScheduler wires a Temporal client. fallback, when set, receives requests the
// cluster refused to start.
func NewTemporalScheduler(c client.Client, fallback ports.CleanupScheduler, logger *slog.Logger) *TemporalScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemporalScheduler{client: c, taskQueue: cartworkflows.CartCleanupTaskQueue, fallback: fallback, logger: logger}
}

// Schedule starts one cleanup workflow per order. A second start for the same order is a no-op.
func (s *TemporalScheduler) Schedule(ctx context.Context, req ports.CleanupRequest) error {
	if s == nil || s.client == nil {
		return errors.New("temporal cart cleanup not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                    CleanupWorkflowID(req),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := s.client.ExecuteWorkflow(ctx, options, cartworkflows.CartCleanupWorkflow, cartworkflows.CartCleanupWorkflowInput{
		Request: req,
		TraceID: traceID(ctx),
	})
	if err == nil {
		return nil
	}
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	if s.fallback == nil {
		return fmt.Errorf("start cart cleanup workflow: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "cart cleanup workflow not started, using fallback",
		slog.String("user.id", req.UserID), slog.String("order.id", req.OrderID), slog.String("error", err.Error()))
	return s.fallback.Schedule(ctx, req)
}

// CleanupWorkflowID derives a deterministic workflow id from the order.
func CleanupWorkflowID(req ports.CleanupRequest) string {
	if req.OrderID != "" {
		return "cart-cleanup-" + req.OrderID
	}
	return fmt.Sprintf("cart-cleanup-%s-%d", req.UserID, req.Cutoff.UnixNano())
}

func traceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
