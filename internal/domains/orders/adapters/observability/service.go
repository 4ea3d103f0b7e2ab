package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersapp "github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ordersports.DirectOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CreateOrder",
		trace.WithAttributes(
			attribute.String("user.id", input.UserID),
			attribute.String("payment.provider_order_id", input.ProviderOrderID),
			attribute.Int("order.lines", len(input.Lines)),
		))
	defer span.End()

	s.logInfo(ctx, "recording direct order",
		slog.String("user_id", input.UserID),
		slog.String("provider_order_id", input.ProviderOrderID),
		slog.String("payment_id", input.PaymentID))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "direct", err)
		return nil, s.handleError(ctx, span, err, "failed to record order", slog.String("user_id", input.UserID))
	}
	s.metrics.recordSaved(ctx, result.Status)
	span.SetAttributes(attribute.String("order.id", result.ID), attribute.Int64("order.total_minor", result.Total))
	s.logInfo(ctx, "order recorded", slog.String("order_id", result.ID), slog.Int64("total_minor", result.Total), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) CreatePaymentIntent(ctx context.Context, input ordersports.PaymentIntentInput) (*ordersdomain.PaymentIntent, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CreatePaymentIntent",
		trace.WithAttributes(attribute.String("user.id", input.UserID), attribute.Int64("payment.amount_minor", input.Amount)))
	defer span.End()

	s.logInfo(ctx, "creating payment intent", slog.String("user_id", input.UserID), slog.Int64("amount_minor", input.Amount))
	result, err := s.inner.CreatePaymentIntent(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "intent", err)
		return nil, s.handleError(ctx, span, err, "failed to create payment intent", slog.String("user_id", input.UserID))
	}
	s.metrics.recordIntent(ctx, result.Currency)
	span.SetAttributes(attribute.String("payment.provider_order_id", result.ProviderOrderID))
	s.logInfo(ctx, "payment intent created", slog.String("provider_order_id", result.ProviderOrderID), slog.String("receipt", result.Receipt))
	return result, nil
}

func (s *Service) VerifyAndSave(ctx context.Context, input ordersports.VerifyAndSaveInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.VerifyAndSave",
		trace.WithAttributes(
			attribute.String("user.id", input.UserID),
			attribute.String("payment.provider_order_id", input.Confirmation.ProviderOrderID),
			attribute.String("payment.id", input.Confirmation.ProviderPaymentID),
		))
	defer span.End()

	// The signature is never logged.
	s.logInfo(ctx, "verifying payment",
		slog.String("user_id", input.UserID),
		slog.String("provider_order_id", input.Confirmation.ProviderOrderID),
		slog.String("payment_id", input.Confirmation.ProviderPaymentID))
	result, err := s.inner.VerifyAndSave(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "verify", err)
		return nil, s.handleError(ctx, span, err, "failed to verify and save order", slog.String("user_id", input.UserID))
	}
	s.metrics.recordSaved(ctx, result.Status)
	span.SetAttributes(attribute.String("order.id", result.ID), attribute.Int64("order.total_minor", result.Total))
	s.logInfo(ctx, "payment verified and order saved", slog.String("order_id", result.ID), slog.Int64("total_minor", result.Total))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string, filter ordersports.ListFilter) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("order.status", string(filter.Status))))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, userID, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("user_id", userID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, level slog.Level, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

// handleError records the failure on the span. Caller mistakes are logged at warn so
// error level stays reserved for provider and storage faults.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	reason := Reason(err)
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		span.SetAttributes(attribute.String("error.kind", reason))
	}
	level := slog.LevelWarn
	switch reason {
	case "payment_provider_error", "payment_provider_timeout", "storage_error", "internal":
		level = slog.LevelError
	}
	s.logError(ctx, level, msg, err, append(attrs, slog.String("kind", reason))...)
	return err
}

// Reason classifies an orders error into a stable low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ordersapp.ErrDuplicateOrder):
		return "duplicate_order"
	case errors.Is(err, ordersapp.ErrTotalMismatch):
		return "total_mismatch"
	case errors.Is(err, ordersapp.ErrInvalidItem):
		return "invalid_item"
	case errors.Is(err, ordersapp.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ordersapp.ErrValidation):
		return "validation_error"
	case errors.Is(err, ordersapp.ErrPaymentProviderTimeout):
		return "payment_provider_timeout"
	case errors.Is(err, ordersapp.ErrPaymentProviderError):
		return "payment_provider_error"
	case errors.Is(err, ordersapp.ErrStorage):
		return "storage_error"
	default:
		return "internal"
	}
}

type serviceMetrics struct {
	ordersSaved    metric.Int64Counter
	rejections     metric.Int64Counter
	intentsCreated metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersSaved, _ := m.Int64Counter("orders.service.orders_saved", metric.WithDescription("Number of orders recorded"))
	rejections, _ := m.Int64Counter("orders.service.rejections", metric.WithDescription("Number of rejected order operations"))
	intentsCreated, _ := m.Int64Counter("orders.service.intents_created", metric.WithDescription("Number of payment intents opened"))
	return serviceMetrics{ordersSaved: ordersSaved, rejections: rejections, intentsCreated: intentsCreated}
}

func (m serviceMetrics) recordSaved(ctx context.Context, status ordersdomain.Status) {
	if m.ordersSaved != nil {
		m.ordersSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, flow string, err error) {
	if m.rejections != nil {
		m.rejections.Add(ctx, 1, metric.WithAttributes(
			attribute.String("flow", flow),
			attribute.String("reason", Reason(err)),
		))
	}
}

func (m serviceMetrics) recordIntent(ctx context.Context, currency string) {
	if m.intentsCreated != nil {
		m.intentsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("currency", currency)))
	}
}

var _ ordersports.Service = (*Service)(nil)
