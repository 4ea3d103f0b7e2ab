package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	cartsmemory "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/memory"
	cartspostgres "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/persistence/postgres"
	cartsports "github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	cartactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/carts"
	cartworkflows "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/workflows/carts"
	platformobservability "github.com/Apurer/go-gin-orders-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-orders-api/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "orders-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, cleanupStore, err := buildCartStore(ctx, logger)
	if err != nil {
		logger.Error("failed to configure cart store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStore()
	cartActivities := cartactivities.NewActivities(store)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, cartworkflows.CartCleanupTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(cartworkflows.CartCleanupWorkflow, workflow.RegisterOptions{Name: cartworkflows.CartCleanupWorkflowName})
	w.RegisterActivityWithOptions(cartActivities.ClearCart, activity.RegisterOptions{Name: cartactivities.ClearCartActivityName})

	logger.Info("worker listening", slog.String("taskQueue", cartworkflows.CartCleanupTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildCartStore(ctx context.Context, logger *slog.Logger) (cartsports.Store, func(), error) {
	db, cleanup, err := platformpostgres.ConnectFromEnv(ctx, logger)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		logger.Warn("worker cart store running in memory; cleanups will not reach the API's carts")
		return cartsmemory.NewStore(), cleanup, nil
	}
	logger.Info("worker cart store configured with postgres")
	return cartspostgres.NewStore(db), cleanup, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
