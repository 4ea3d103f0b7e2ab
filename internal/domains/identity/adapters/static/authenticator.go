package static

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-orders-api/internal/domains/identity/ports"
)

var _ ports.Authenticator = (*Authenticator)(nil)

// Authenticator accepts a fixed set of tokens. Used by tests and contract verification.
type Authenticator struct {
	mu     sync.RWMutex
	tokens map[string]ports.Principal
}

func New() *Authenticator {
	return &Authenticator{tokens: map[string]ports.Principal{}}
}

// Grant registers token for principal.
func (a *Authenticator) Grant(token string, principal ports.Principal) *Authenticator {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = principal
	return a
}

func (a *Authenticator) Authenticate(_ context.Context, token string) (ports.Principal, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	principal, ok := a.tokens[token]
	if !ok {
		return ports.Principal{}, ports.ErrUnauthorized
	}
	return principal, nil
}
