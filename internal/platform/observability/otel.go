package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Exporter selectors accepted by OTEL_TRACES_EXPORTER and OTEL_METRICS_EXPORTER.
const (
	ExporterOTLP    = "otlp"
	ExporterConsole = "console"
	ExporterNone    = "none"
)

// Instruments bundles the runtime-wide observability dependencies.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Option customises Init.
type Option func(*settings)

type settings struct {
	readers    []sdkmetric.Reader
	processors []sdktrace.SpanProcessor
}

// WithMetricReader attaches an additional metric reader next to the configured exporter.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(s *settings) {
		if r != nil {
			s.readers = append(s.readers, r)
		}
	}
}

// WithSpanProcessor attaches an additional span processor next to the configured exporter.
func WithSpanProcessor(p sdktrace.SpanProcessor) Option {
	return func(s *settings) {
		if p != nil {
			s.processors = append(s.processors, p)
		}
	}
}

// Init configures slog plus OpenTelemetry tracing and metrics for the process.
// Spans are batched and metrics are pushed periodically to the exporter chosen by
// OTEL_TRACES_EXPORTER / OTEL_METRICS_EXPORTER (otlp by default, console, or none).
// The returned shutdown flushes both pipelines.
func Init(ctx context.Context, serviceName string, opts ...Option) (*Instruments, func(context.Context) error, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := newLogger()

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", envOrDefault("ENVIRONMENT", "local")),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	spanExporter, err := newSpanExporter(ctx, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("trace exporter: %w", err)
	}
	if spanExporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))
	}
	for _, p := range cfg.processors {
		traceOpts = append(traceOpts, sdktrace.WithSpanProcessor(p))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)

	metricExporter, err := newMetricExporter(ctx, logger)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, nil, fmt.Errorf("metric exporter: %w", err)
	}
	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if metricExporter != nil {
		// The interval honours OTEL_METRIC_EXPORT_INTERVAL.
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	}
	for _, r := range cfg.readers {
		meterOpts = append(meterOpts, sdkmetric.WithReader(r))
	}
	meterProvider := sdkmetric.NewMeterProvider(meterOpts...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}

	return &Instruments{
		Logger:         logger,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, shutdown, nil
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter from the configured provider.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

func newLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// newSpanExporter returns nil when tracing export is disabled.
func newSpanExporter(ctx context.Context, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	switch kind := exporterKind("OTEL_TRACES_EXPORTER"); kind {
	case ExporterNone:
		return nil, nil
	case ExporterConsole:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterOTLP:
		var opts []otlptracehttp.Option
		if endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		}
		if insecureOTLP() {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err == nil {
			return exporter, nil
		}
		logger.Warn("failed to initialize OTLP trace exporter, falling back to stdout", slog.String("error", err.Error()))
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported OTEL_TRACES_EXPORTER %q", kind)
	}
}

// newMetricExporter returns nil when metric export is disabled.
func newMetricExporter(ctx context.Context, logger *slog.Logger) (sdkmetric.Exporter, error) {
	switch kind := exporterKind("OTEL_METRICS_EXPORTER"); kind {
	case ExporterNone:
		return nil, nil
	case ExporterConsole:
		return stdoutmetric.New()
	case ExporterOTLP:
		var opts []otlpmetrichttp.Option
		if endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		if insecureOTLP() {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err == nil {
			return exporter, nil
		}
		logger.Warn("failed to initialize OTLP metric exporter, falling back to stdout", slog.String("error", err.Error()))
		return stdoutmetric.New()
	default:
		return nil, fmt.Errorf("unsupported OTEL_METRICS_EXPORTER %q", kind)
	}
}

func exporterKind(key string) string {
	kind := strings.ToLower(envOrDefault(key, ExporterOTLP))
	if kind == "stdout" {
		return ExporterConsole
	}
	return kind
}

func insecureOTLP() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0"
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
