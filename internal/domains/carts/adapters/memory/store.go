package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps cart lines in memory for development and tests.
type Store struct {
	mu    sync.RWMutex
	lines map[string][]ports.Line
	now   func() time.Time
	// failures makes the next N ClearBefore calls fail; used to exercise retries.
	failures int
}

func NewStore() *Store {
	return &Store{lines: map[string][]ports.Line{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// FailNext makes the next n clears return an error.
func (s *Store) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
}

// Add appends a line to the user's cart, stamping AddedAt when unset.
func (s *Store) Add(_ context.Context, line ports.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line.AddedAt.IsZero() {
		line.AddedAt = s.now()
	}
	s.lines[line.UserID] = append(s.lines[line.UserID], line)
}

// Lines returns a copy of the user's cart.
func (s *Store) Lines(_ context.Context, userID string) []ports.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Line(nil), s.lines[userID]...)
}

func (s *Store) ClearBefore(_ context.Context, userID string, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return 0, errors.New("cart store unavailable")
	}
	kept := s.lines[userID][:0]
	var removed int64
	for _, line := range s.lines[userID] {
		if !line.AddedAt.After(cutoff) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		delete(s.lines, userID)
	} else {
		s.lines[userID] = kept
	}
	return removed, nil
}
