package ordersserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	identityports "github.com/Apurer/go-gin-orders-api/internal/domains/identity/ports"
)

const principalKey = "orders.principal"

// BearerAuth authenticates the Authorization header and stores the principal on the
// gin context. Requests without a valid token are rejected with 401.
func BearerAuth(authenticator identityports.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			respondServiceError(c, identityports.ErrUnauthorized)
			c.Abort()
			return
		}
		principal, err := authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			respondServiceError(c, identityports.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// principalFrom returns the authenticated principal, or false when auth did not run.
func principalFrom(c *gin.Context) (identityports.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return identityports.Principal{}, false
	}
	principal, ok := value.(identityports.Principal)
	return principal, ok && principal.SubjectID != ""
}

// requirePrincipal writes a 401 and returns false when the request is anonymous.
func requirePrincipal(c *gin.Context) (identityports.Principal, bool) {
	principal, ok := principalFrom(c)
	if !ok {
		respondServiceError(c, identityports.ErrUnauthorized)
		return identityports.Principal{}, false
	}
	return principal, true
}
