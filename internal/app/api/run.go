package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	ordersserver "github.com/Apurer/go-gin-orders-api/go"

	razorpayclient "github.com/Apurer/go-gin-orders-api/internal/clients/http/razorpay"
	cartscleanup "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/cleanup"
	cartsmemory "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/memory"
	cartspostgres "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/persistence/postgres"
	cartsports "github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
	catalogmemory "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/seed"
	catalogports "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/ports"
	identityjwt "github.com/Apurer/go-gin-orders-api/internal/domains/identity/adapters/jwt"
	ordersrazorpay "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/external/razorpay"
	ordersmemory "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-orders-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-orders-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-orders-api/internal/platform/postgres"
)

const shutdownTimeout = 10 * time.Second

// stores groups the persistence adapters selected at boot.
type stores struct {
	catalog catalogports.Catalog
	orders  ordersports.Repository
	carts   cartsports.Store
	close   func()
	// durable is false for in-memory stores, which live only inside this process.
	durable bool
}

// Run boots the orders HTTP API with observability, repositories, and workflows wired.
// It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	const serviceName = "orders-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	st, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	rzp, err := razorpayclient.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret,
		razorpayclient.WithHTTPClient(&http.Client{Timeout: cfg.ProviderTimeout + time.Second}))
	if err != nil {
		return fmt.Errorf("configure payment provider: %w", err)
	}

	inline := cartscleanup.NewInlineScheduler(st.carts, cartscleanup.WithLogger(logger))
	defer inline.Wait()
	scheduler, closeScheduler := selectScheduler(st.durable, inline, func() (client.Client, error) {
		return connectTemporalClient(cfg, instruments)
	}, logger)
	defer closeScheduler()

	pricer := ordersapp.NewPricer(st.catalog, cfg.Currency)
	gateway := ordersapp.NewGateway(ordersrazorpay.NewProvider(rzp), cfg.Currency,
		ordersapp.WithMinimumAmount(cfg.MinimumAmount),
		ordersapp.WithProviderTimeout(cfg.ProviderTimeout),
	)
	ledger := ordersapp.NewLedger(st.orders, pricer, scheduler, ordersapp.WithLedgerLogger(logger))
	coreService := ordersapp.NewService(ordersapp.Dependencies{
		Repository:    st.orders,
		Pricer:        pricer,
		Gateway:       gateway,
		Ledger:        ledger,
		SigningSecret: cfg.RazorpayKeySecret,
	}, ordersapp.WithIntentAmountCheck(cfg.VerifyIntent))
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	verifier, err := identityjwt.NewVerifier(cfg.JWTSecret, cfg.JWTLeeway)
	if err != nil {
		return fmt.Errorf("configure token verifier: %w", err)
	}

	handlers := ordersserver.ApiHandleFunctions{
		OrdersAPI:   ordersserver.NewOrdersAPI(orderService),
		PaymentsAPI: ordersserver.NewPaymentsAPI(orderService, cfg.RazorpayKeyID),
		SystemAPI:   ordersserver.NewSystemAPI(true, cfg.Currency, cfg.Environment),
		Auth:        ordersserver.BearerAuth(verifier),
		KeyLimiter:  ordersserver.NewClientRateLimiter(cfg.KeyRatePerMinute, cfg.KeyRateBurst).Middleware(),
	}
	engine := ordersserver.NewEngine(otelgin.Middleware(serviceName, otelgin.WithTracerProvider(instruments.TracerProvider)))
	router := ordersserver.NewRouterWithGinEngine(engine, handlers)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("orders API listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("orders API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down orders API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("orders API shutdown failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildStores selects postgres when a DSN is configured and in-memory stores otherwise.
// A configured database that cannot be reached or migrated fails the boot.
func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (stores, error) {
	db, cleanup, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return stores{}, err
	}
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return stores{}, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("orders, catalog, and carts configured with postgres")
		return stores{
			catalog: catalogpostgres.NewRepository(db),
			orders:  orderspostgres.NewRepository(db),
			carts:   cartspostgres.NewStore(db),
			close:   cleanup,
			durable: true,
		}, nil
	}

	items, err := seed.DefaultMenu(cfg.ImageBaseURL)
	if err != nil {
		return stores{}, fmt.Errorf("load default menu: %w", err)
	}
	catalog, err := catalogmemory.NewRepository(items...)
	if err != nil {
		return stores{}, fmt.Errorf("seed in-memory catalog: %w", err)
	}
	return stores{
		catalog: catalog,
		orders:  ordersmemory.NewRepository(),
		carts:   cartsmemory.NewStore(),
		close:   func() {},
	}, nil
}

// selectScheduler prefers Temporal for cart cleanup. In-memory carts are only reachable
// from this process, so they always use the inline scheduler.
func selectScheduler(durable bool, inline *cartscleanup.InlineScheduler, dial func() (client.Client, error), logger *slog.Logger) (cartsports.CleanupScheduler, func()) {
	if !durable {
		logger.Info("cart store is in memory, clearing carts inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, clearing carts inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return cartscleanup.NewTemporalScheduler(temporalClient, inline, logger), temporalClient.Close
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
