package jwt

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-orders-api/internal/domains/identity/ports"
)

func TestAuthenticate_ValidToken(t *testing.T) {
	v, err := NewVerifier("s3cret", 0)
	require.NoError(t, err)
	token, err := v.Issue(ports.Principal{SubjectID: "user-1", Role: "admin"}, time.Hour, time.Now())
	require.NoError(t, err)

	principal, err := v.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-1", principal.SubjectID)
	require.True(t, principal.IsAdmin())
}

func TestAuthenticate_DefaultsRoleToUser(t *testing.T) {
	v, err := NewVerifier("s3cret", 0)
	require.NoError(t, err)
	token, err := v.Issue(ports.Principal{SubjectID: "user-1"}, time.Hour, time.Now())
	require.NoError(t, err)

	principal, err := v.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user", principal.Role)
}

func TestAuthenticate_RejectsExpiredToken(t *testing.T) {
	v, err := NewVerifier("s3cret", 0)
	require.NoError(t, err)
	token, err := v.Issue(ports.Principal{SubjectID: "user-1"}, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = v.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ports.ErrUnauthorized)
}

func TestAuthenticate_RejectsForeignSecret(t *testing.T) {
	issuer, err := NewVerifier("other", 0)
	require.NoError(t, err)
	token, err := issuer.Issue(ports.Principal{SubjectID: "user-1"}, time.Hour, time.Now())
	require.NoError(t, err)

	v, err := NewVerifier("s3cret", 0)
	require.NoError(t, err)
	_, err = v.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ports.ErrUnauthorized)
}

func TestAuthenticate_RejectsNoneAlgorithm(t *testing.T) {
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	v, err := NewVerifier("s3cret", 0)
	require.NoError(t, err)
	_, err = v.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ports.ErrUnauthorized)
}

func TestAuthenticate_RejectsEmptyToken(t *testing.T) {
	v, err := NewVerifier("s3cret", 0)
	require.NoError(t, err)
	_, err = v.Authenticate(context.Background(), " ")
	require.ErrorIs(t, err, ports.ErrUnauthorized)
}
