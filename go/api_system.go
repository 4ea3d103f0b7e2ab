package ordersserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemAPI serves unauthenticated operational endpoints.
type SystemAPI struct {
	providerConfigured bool
	currency           string
	environment        string
	now                func() time.Time
}

// NewSystemAPI reports configuration state without exposing any secret.
func NewSystemAPI(providerConfigured bool, currency, environment string) SystemAPI {
	return SystemAPI{
		providerConfigured: providerConfigured,
		currency:           currency,
		environment:        environment,
		now:                time.Now,
	}
}

// Get /api/config-check
func (api *SystemAPI) ConfigCheck(c *gin.Context) {
	now := time.Now
	if api.now != nil {
		now = api.now
	}
	c.JSON(http.StatusOK, gin.H{
		"paymentProviderConfigured": api.providerConfigured,
		"currency":                  api.currency,
		"environment":               api.environment,
		"serverTime":                now().UTC().Format(time.RFC3339),
	})
}

// Get /healthz
func (api *SystemAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
