package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

func newPricer(t *testing.T) *Pricer {
	t.Helper()
	idli, err := catalogdomain.NewItem("0001", "Crispy Chicken", "", decimal.RequireFromString("99"), 5, "")
	require.NoError(t, err)
	bacon, err := catalogdomain.NewItem("0002", "Ultimate Bacon", "", decimal.RequireFromString("199"), 4.5, "")
	require.NoError(t, err)
	fries, err := catalogdomain.NewItem("0009", "Fries", "", decimal.RequireFromString("49.50"), 4, "")
	require.NoError(t, err)
	catalog, err := catalogmemory.NewRepository(idli, bacon, fries)
	require.NoError(t, err)
	return NewPricer(catalog, "inr")
}

func TestPrice_SumsQuantityTimesUnitPrice(t *testing.T) {
	pricer := newPricer(t)

	quote, err := pricer.Price(context.Background(), lines("0001", 2), nil)
	require.NoError(t, err)
	require.Equal(t, int64(19800), quote.Total)
	require.Equal(t, "INR", quote.Currency)
	require.Len(t, quote.Lines, 1)
	require.Equal(t, int64(9900), quote.Lines[0].UnitPrice)
	require.Equal(t, "Crispy Chicken", quote.Lines[0].Title)
}

func TestPrice_PreservesOrderAndRepeats(t *testing.T) {
	pricer := newPricer(t)

	quote, err := pricer.Price(context.Background(), lines("0002", 1, "0001", 1, "0002", 2, "0009", 1), nil)
	require.NoError(t, err)
	require.Equal(t, int64(19900+9900+39800+4950), quote.Total)
	ids := make([]string, 0, len(quote.Lines))
	for _, l := range quote.Lines {
		ids = append(ids, l.ItemID)
	}
	require.Equal(t, []string{"0002", "0001", "0002", "0009"}, ids)
}

func TestPrice_ClaimedTotalMustMatchExactly(t *testing.T) {
	pricer := newPricer(t)

	ok := decimal.RequireFromString("198.00")
	_, err := pricer.Price(context.Background(), lines("0001", 2), &ok)
	require.NoError(t, err)

	wrong := decimal.RequireFromString("199")
	_, err = pricer.Price(context.Background(), lines("0001", 2), &wrong)
	require.ErrorIs(t, err, ErrTotalMismatch)
	require.Contains(t, err.Error(), "expected 198")

	subMinor := decimal.RequireFromString("198.001")
	_, err = pricer.Price(context.Background(), lines("0001", 2), &subMinor)
	require.ErrorIs(t, err, ErrTotalMismatch)
}

func TestPrice_ReportsEveryMissingItem(t *testing.T) {
	pricer := newPricer(t)

	_, err := pricer.Price(context.Background(), lines("0001", 1, "9999", 1, "8888", 3), nil)
	require.ErrorIs(t, err, ErrInvalidItem)
	require.Equal(t, []string{"8888", "9999"}, MissingItemIDs(err))
}

func TestPrice_RejectsBadLines(t *testing.T) {
	pricer := newPricer(t)

	_, err := pricer.Price(context.Background(), nil, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = pricer.Price(context.Background(), lines("0001", 0), nil)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = pricer.Price(context.Background(), lines("0001", -3), nil)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = pricer.Price(context.Background(), []domain.LineRequest{{ItemID: " ", Quantity: 1}}, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestPrice_OverflowIsRejected(t *testing.T) {
	pricer := newPricer(t)

	_, err := pricer.Price(context.Background(), lines("0002", int(^uint(0)>>1)), nil)
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, domain.ErrAmountOverflow)
}
