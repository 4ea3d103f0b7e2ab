package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/go-gin-orders-api/internal/domains/identity/ports"
)

var _ ports.Authenticator = (*Verifier)(nil)

// Claims mirrors the token payload issued by the auth service.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	gojwt.RegisteredClaims
}

// Verifier validates HS256 tokens signed with the shared auth secret.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

// NewVerifier builds a verifier for the given HMAC secret.
func NewVerifier(secret string, leeway time.Duration) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Verifier{secret: []byte(secret), leeway: leeway}, nil
}

// Authenticate parses and validates the token, returning its subject and role.
func (v *Verifier) Authenticate(_ context.Context, token string) (ports.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return ports.Principal{}, ports.ErrUnauthorized
	}
	var claims Claims
	parsed, err := gojwt.ParseWithClaims(token, &claims, func(t *gojwt.Token) (any, error) {
		return v.secret, nil
	}, gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}), gojwt.WithLeeway(v.leeway), gojwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return ports.Principal{}, fmt.Errorf("%w: %v", ports.ErrUnauthorized, err)
	}
	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return ports.Principal{}, fmt.Errorf("%w: token has no subject", ports.ErrUnauthorized)
	}
	role := claims.Role
	if role == "" {
		role = "user"
	}
	return ports.Principal{SubjectID: subject, Role: role}, nil
}

// Issue signs a token for the principal. Used by tests and local tooling; production tokens
// come from the auth service.
func (v *Verifier) Issue(principal ports.Principal, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		UserID: principal.SubjectID,
		Role:   principal.Role,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   principal.SubjectID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(v.secret)
}
