package domain

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrEmptyUser            = errors.New("user id is required")
	ErrEmptyLines           = errors.New("order must contain at least one line")
	ErrEmptyItemID          = errors.New("catalog item id is required")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrEmptyPaymentID       = errors.New("payment id is required")
	ErrEmptyProviderOrderID = errors.New("provider order id is required")
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrTotalMismatch        = errors.New("order total does not match its lines")
)

// LineRequest is a client-supplied cart line before it is priced.
type LineRequest struct {
	ItemID   string
	Quantity int
}

// Validate checks the line shape without touching the catalog.
func (l LineRequest) Validate() error {
	if strings.TrimSpace(l.ItemID) == "" {
		return ErrEmptyItemID
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// OrderLine is a priced line, snapshotted from the catalog at save time.
type OrderLine struct {
	CatalogItemID int64
	ItemID        string
	Title         string
	UnitPrice     int64
	Quantity      int
}

// Subtotal returns unit price times quantity in minor units.
func (l OrderLine) Subtotal() (int64, error) {
	return MulMinor(l.UnitPrice, l.Quantity)
}

// Order is the persisted reconciliation record for one provider payment.
type Order struct {
	ID              string
	UserID          string
	Lines           []OrderLine
	Total           int64
	PaymentID       string
	ProviderOrderID string
	Currency        string
	Status          Status
	CreatedAt       time.Time
}

// NewOrder validates and constructs a new Order aggregate.
func NewOrder(id, userID string, lines []OrderLine, total int64, paymentID, providerOrderID, currency string, status Status, createdAt time.Time) (*Order, error) {
	order := &Order{
		ID:              id,
		UserID:          strings.TrimSpace(userID),
		Lines:           append([]OrderLine(nil), lines...),
		Total:           total,
		PaymentID:       strings.TrimSpace(paymentID),
		ProviderOrderID: strings.TrimSpace(providerOrderID),
		Currency:        strings.ToUpper(strings.TrimSpace(currency)),
		Status:          status,
		CreatedAt:       createdAt,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate, including that the total equals the
// sum of its lines.
func (o *Order) Validate() error {
	if o.UserID == "" {
		return ErrEmptyUser
	}
	if len(o.Lines) == 0 {
		return ErrEmptyLines
	}
	if o.PaymentID == "" {
		return ErrEmptyPaymentID
	}
	if o.ProviderOrderID == "" {
		return ErrEmptyProviderOrderID
	}
	if _, err := MinorExponent(o.Currency); err != nil {
		return err
	}
	if !IsValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	var sum int64
	for _, line := range o.Lines {
		if line.Quantity < 1 {
			return ErrInvalidQuantity
		}
		sub, err := line.Subtotal()
		if err != nil {
			return err
		}
		if sum, err = AddMinor(sum, sub); err != nil {
			return err
		}
	}
	if sum != o.Total {
		return ErrTotalMismatch
	}
	return nil
}

// ReconciliationKey identifies the provider payment an order settles. At most one
// order exists per key.
type ReconciliationKey struct {
	ProviderOrderID string
	PaymentID       string
}

// ReconciliationKey returns the key of the provider payment this order settles.
func (o *Order) ReconciliationKey() ReconciliationKey {
	return ReconciliationKey{ProviderOrderID: o.ProviderOrderID, PaymentID: o.PaymentID}
}

// ItemIDs returns the client-facing catalog ids referenced by the order.
func (o *Order) ItemIDs() []string {
	ids := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		ids = append(ids, line.ItemID)
	}
	return ids
}

// IsValidStatus reports whether status is one of the known order states.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}
