package mapper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// LineItem is a cart line as the checkout client sends it.
type LineItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// DirectOrderRequest is the body of POST /api/order.
type DirectOrderRequest struct {
	Items     []LineItem `json:"items"`
	PaymentID string     `json:"paymentId"`
	OrderID   string     `json:"orderId"`
	Currency  string     `json:"currency,omitempty"`
}

// PaymentIntentRequest is the body of POST /api/create-order. Amount is in minor units.
type PaymentIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
	Receipt  string `json:"receipt,omitempty"`
}

// VerifyPaymentRequest is the body of POST /api/save-order and /api/verify-payment. The
// checkout widget reports razorpay_* fields; the short names are accepted as well.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string           `json:"razorpay_order_id"`
	RazorpayPaymentID string           `json:"razorpay_payment_id"`
	RazorpaySignature string           `json:"razorpay_signature"`
	OrderID           string           `json:"orderId"`
	PaymentID         string           `json:"paymentId"`
	Signature         string           `json:"signature"`
	Items             []LineItem       `json:"items"`
	TotalAmount       *decimal.Decimal `json:"totalAmount"`
	Currency          string           `json:"currency,omitempty"`
}

// OrderLine is the transport shape of a priced line. Money is in major units.
type OrderLine struct {
	MenuItemID string          `json:"menuItemId"`
	Title      string          `json:"title"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Order is the transport shape of a recorded order.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []OrderLine     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalMinor  int64           `json:"totalMinor"`
	Currency    string          `json:"currency"`
	PaymentID   string          `json:"paymentId"`
	OrderID     string          `json:"orderId"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PaymentIntent mirrors the provider order the checkout widget is opened with.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// ToLineRequests converts transport lines to domain line requests.
func ToLineRequests(items []LineItem) []ordersdomain.LineRequest {
	lines := make([]ordersdomain.LineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, ordersdomain.LineRequest{ItemID: strings.TrimSpace(item.MenuItemID), Quantity: item.Quantity})
	}
	return lines
}

// ToDirectOrderInput builds the flow A input for the authenticated user.
func ToDirectOrderInput(userID string, req DirectOrderRequest) ordersports.DirectOrderInput {
	return ordersports.DirectOrderInput{
		UserID:          userID,
		Lines:           ToLineRequests(req.Items),
		PaymentID:       req.PaymentID,
		ProviderOrderID: req.OrderID,
		Currency:        req.Currency,
	}
}

// ToPaymentIntentInput builds the flow B step 1 input.
func ToPaymentIntentInput(userID string, req PaymentIntentRequest) ordersports.PaymentIntentInput {
	return ordersports.PaymentIntentInput{
		UserID:   userID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	}
}

// ToVerifyAndSaveInput builds the flow B step 2 input, preferring the razorpay_* names.
func ToVerifyAndSaveInput(userID string, req VerifyPaymentRequest) ordersports.VerifyAndSaveInput {
	var claimed decimal.Decimal
	if req.TotalAmount != nil {
		claimed = *req.TotalAmount
	}
	return ordersports.VerifyAndSaveInput{
		UserID: userID,
		Confirmation: ordersdomain.PaymentConfirmation{
			ProviderOrderID:   firstNonEmpty(req.RazorpayOrderID, req.OrderID),
			ProviderPaymentID: firstNonEmpty(req.RazorpayPaymentID, req.PaymentID),
			Signature:         firstNonEmpty(req.RazorpaySignature, req.Signature),
		},
		Lines:        ToLineRequests(req.Items),
		ClaimedTotal: claimed,
		Currency:     req.Currency,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	lines := make([]OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		subtotal, _ := line.Subtotal()
		lines = append(lines, OrderLine{
			MenuItemID: line.ItemID,
			Title:      line.Title,
			UnitPrice:  ordersdomain.FromMinor(line.UnitPrice, order.Currency),
			Quantity:   line.Quantity,
			Subtotal:   ordersdomain.FromMinor(subtotal, order.Currency),
		})
	}
	return Order{
		ID:          order.ID,
		UserID:      order.UserID,
		Items:       lines,
		TotalAmount: ordersdomain.FromMinor(order.Total, order.Currency),
		TotalMinor:  order.Total,
		Currency:    order.Currency,
		PaymentID:   order.PaymentID,
		OrderID:     order.ProviderOrderID,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	}
}

// FromDomainOrders converts a list, never returning nil.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}

// FromPaymentIntent converts a provider intent to the transport representation.
func FromPaymentIntent(intent *ordersdomain.PaymentIntent) PaymentIntent {
	if intent == nil {
		return PaymentIntent{}
	}
	return PaymentIntent{
		ID:       intent.ProviderOrderID,
		Amount:   intent.Amount,
		Currency: intent.Currency,
		Receipt:  intent.Receipt,
		Status:   intent.Status,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
