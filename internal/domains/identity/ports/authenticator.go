package ports

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned for missing, malformed, or expired credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Principal is the authenticated subject of a request.
type Principal struct {
	SubjectID string
	Role      string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == "admin" }

// Authenticator verifies bearer tokens issued by the identity provider.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}
