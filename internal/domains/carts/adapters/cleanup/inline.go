package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
)

var _ ports.CleanupScheduler = (*InlineScheduler)(nil)

// InlineScheduler clears carts in a background goroutine, retrying with exponential backoff.
// It is the fallback when Temporal is unavailable.
type InlineScheduler struct {
	store       ports.Store
	logger      *slog.Logger
	newBackOff  func() backoff.BackOff
	attemptWait time.Duration
	wg          sync.WaitGroup
}

type InlineOption func(*InlineScheduler)

func WithLogger(logger *slog.Logger) InlineOption {
	return func(s *InlineScheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBackOff overrides the retry policy; the factory is invoked once per cleanup.
func WithBackOff(factory func() backoff.BackOff) InlineOption {
	return func(s *InlineScheduler) {
		if factory != nil {
			s.newBackOff = factory
		}
	}
}

// WithAttemptTimeout bounds each individual clear call.
func WithAttemptTimeout(d time.Duration) InlineOption {
	return func(s *InlineScheduler) {
		if d > 0 {
			s.attemptWait = d
		}
	}
}

// NewInlineScheduler wires a cart store into a best-effort background cleaner.
func NewInlineScheduler(store ports.Store, opts ...InlineOption) *InlineScheduler {
	s := &InlineScheduler{
		store:       store,
		logger:      slog.Default(),
		newBackOff:  DefaultBackOff,
		attemptWait: 5 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// DefaultBackOff retries for up to a minute, starting at 500ms.
func DefaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = time.Minute
	return backoff.WithMaxRetries(b, 8)
}

// Schedule starts the cleanup and returns immediately. The caller's cancellation does not
// stop the cleanup.
func (s *InlineScheduler) Schedule(ctx context.Context, req ports.CleanupRequest) error {
	if s == nil || s.store == nil {
		return errors.New("inline cart cleanup not configured")
	}
	if req.UserID == "" {
		return errors.New("cart cleanup requires a user id")
	}
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(detached, req)
	}()
	return nil
}

// Wait blocks until every scheduled cleanup has finished.
func (s *InlineScheduler) Wait() {
	s.wg.Wait()
}

func (s *InlineScheduler) run(ctx context.Context, req ports.CleanupRequest) {
	attempts := 0
	var removed int64
	operation := func() error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptWait)
		defer cancel()
		n, err := s.store.ClearBefore(attemptCtx, req.UserID, req.Cutoff)
		if err != nil {
			return err
		}
		removed = n
		return nil
	}
	notify := func(err error, next time.Duration) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "cart cleanup attempt failed",
			slog.String("user.id", req.UserID),
			slog.String("order.id", req.OrderID),
			slog.Int("attempt", attempts),
			slog.Duration("retry_in", next),
			slog.String("error", err.Error()))
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "cart cleanup abandoned",
			slog.String("user.id", req.UserID),
			slog.String("order.id", req.OrderID),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()))
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "cart cleared",
		slog.String("user.id", req.UserID),
		slog.String("order.id", req.OrderID),
		slog.Int64("cart.lines_removed", removed))
}
