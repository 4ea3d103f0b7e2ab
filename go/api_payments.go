package ordersserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

var errMissingTotal = errors.New("totalAmount is required")

// PaymentsAPI wires the two-step checkout flow.
type PaymentsAPI struct {
	service ordersports.Service
	keyID   string
}

// NewPaymentsAPI creates a PaymentsAPI. keyID is the public provider key handed to checkout.
func NewPaymentsAPI(service ordersports.Service, keyID string) PaymentsAPI {
	return PaymentsAPI{service: service, keyID: keyID}
}

// Post /api/create-order
// Open a provider order the client can pay against
func (api *PaymentsAPI) CreatePaymentIntent(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload ordershttpmapper.PaymentIntentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	intent, err := api.service.CreatePaymentIntent(c.Request.Context(), ordershttpmapper.ToPaymentIntentInput(principal.SubjectID, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromPaymentIntent(intent))
}

// Post /api/save-order
// Post /api/verify-payment
// Verify the provider signature and record a completed order
func (api *PaymentsAPI) VerifyPayment(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload ordershttpmapper.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.TotalAmount == nil {
		respondError(c, http.StatusBadRequest, errMissingTotal)
		return
	}
	order, err := api.service.VerifyAndSave(c.Request.Context(), ordershttpmapper.ToVerifyAndSaveInput(principal.SubjectID, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordershttpmapper.FromDomainOrder(order))
}

// Get /api/razorpay-key
// Return the public key id checkout is initialised with
func (api *PaymentsAPI) RazorpayKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keyId": api.keyID})
}
