package razorpay

import (
	razorpayclient "github.com/Apurer/go-gin-orders-api/internal/clients/http/razorpay"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// ToOrderRequest converts an intent request into the provider payload.
func ToOrderRequest(req ports.CreateIntentRequest) razorpayclient.OrderRequest {
	var notes map[string]string
	if len(req.Notes) > 0 {
		notes = make(map[string]string, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
	}
	return razorpayclient.OrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    notes,
	}
}

// FromOrder builds the domain intent from a provider order.
func FromOrder(order *razorpayclient.Order) *domain.PaymentIntent {
	if order == nil {
		return nil
	}
	return &domain.PaymentIntent{
		ProviderOrderID: order.ID,
		Amount:          order.Amount,
		AmountPaid:      order.AmountPaid,
		Currency:        order.Currency,
		Receipt:         order.Receipt,
		Status:          order.Status,
	}
}
