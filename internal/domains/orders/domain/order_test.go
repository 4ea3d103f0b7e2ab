package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validLines() []OrderLine {
	return []OrderLine{
		{CatalogItemID: 1, ItemID: "0001", Title: "Crispy Chicken", UnitPrice: 9900, Quantity: 2},
		{CatalogItemID: 2, ItemID: "0002", Title: "Ultimate Bacon", UnitPrice: 19900, Quantity: 1},
	}
}

func TestNewOrder_NormalisesAndValidates(t *testing.T) {
	order, err := NewOrder("id-1", " u1 ", validLines(), 39700, " pay_1 ", " order_1 ", "inr", StatusCompleted, time.Now())
	require.NoError(t, err)
	require.Equal(t, "u1", order.UserID)
	require.Equal(t, "pay_1", order.PaymentID)
	require.Equal(t, "order_1", order.ProviderOrderID)
	require.Equal(t, "INR", order.Currency)
	require.Equal(t, ReconciliationKey{ProviderOrderID: "order_1", PaymentID: "pay_1"}, order.ReconciliationKey())
	require.Equal(t, []string{"0001", "0002"}, order.ItemIDs())
}

func TestNewOrder_TotalMustEqualLines(t *testing.T) {
	_, err := NewOrder("id-1", "u1", validLines(), 39800, "pay_1", "order_1", "INR", StatusCompleted, time.Now())
	require.ErrorIs(t, err, ErrTotalMismatch)
}

func TestNewOrder_Rejections(t *testing.T) {
	now := time.Now()
	cases := map[string]struct {
		build func() error
		want  error
	}{
		"user": {func() error {
			_, err := NewOrder("id", "", validLines(), 39700, "p", "o", "INR", StatusPending, now)
			return err
		}, ErrEmptyUser},
		"lines": {func() error {
			_, err := NewOrder("id", "u", nil, 0, "p", "o", "INR", StatusPending, now)
			return err
		}, ErrEmptyLines},
		"payment": {func() error {
			_, err := NewOrder("id", "u", validLines(), 39700, "", "o", "INR", StatusPending, now)
			return err
		}, ErrEmptyPaymentID},
		"provider order": {func() error {
			_, err := NewOrder("id", "u", validLines(), 39700, "p", "", "INR", StatusPending, now)
			return err
		}, ErrEmptyProviderOrderID},
		"currency": {func() error {
			_, err := NewOrder("id", "u", validLines(), 39700, "p", "o", "ABC", StatusPending, now)
			return err
		}, ErrUnknownCurrency},
		"status": {func() error {
			_, err := NewOrder("id", "u", validLines(), 39700, "p", "o", "INR", "shipped", now)
			return err
		}, ErrInvalidStatus},
		"quantity": {func() error {
			_, err := NewOrder("id", "u", []OrderLine{{ItemID: "0001", UnitPrice: 100, Quantity: 0}}, 0, "p", "o", "INR", StatusPending, now)
			return err
		}, ErrInvalidQuantity},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, tc.build(), tc.want)
		})
	}
}

func TestLineRequestValidate(t *testing.T) {
	require.NoError(t, LineRequest{ItemID: "0001", Quantity: 1}.Validate())
	require.ErrorIs(t, LineRequest{ItemID: "", Quantity: 1}.Validate(), ErrEmptyItemID)
	require.ErrorIs(t, LineRequest{ItemID: "0001", Quantity: 0}.Validate(), ErrInvalidQuantity)
}
