package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

func signedConfirmation(orderID, paymentID string) domain.PaymentConfirmation {
	return domain.PaymentConfirmation{
		ProviderOrderID:   orderID,
		ProviderPaymentID: paymentID,
		Signature:         Sign(orderID, paymentID, testSecret),
	}
}

func TestCreateOrder_ComputesTotalAndStoresPending(t *testing.T) {
	h := newHarness(t)

	order, err := h.svc.CreateOrder(context.Background(), ports.DirectOrderInput{
		UserID:          "u1",
		Lines:           lines("0001", 2),
		PaymentID:       "pay_1",
		ProviderOrderID: "order_1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(19800), order.Total)
	require.Equal(t, domain.StatusPending, order.Status)
	require.Equal(t, "INR", order.Currency)
	require.NotEmpty(t, order.ID)
	require.Equal(t, h.now, order.CreatedAt)
	require.Equal(t, 1, h.scheduler.count())
}

func TestCreateOrder_DuplicatePaymentRejected(t *testing.T) {
	h := newHarness(t)
	input := ports.DirectOrderInput{UserID: "u1", Lines: lines("0001", 1), PaymentID: "pay_1", ProviderOrderID: "order_1"}

	_, err := h.svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	_, err = h.svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrDuplicateOrder)
	require.Equal(t, 1, h.repo.Len())
	require.Equal(t, 1, h.scheduler.count())
}

func TestCreateOrder_ValidationFailuresPersistNothing(t *testing.T) {
	h := newHarness(t)
	cases := map[string]struct {
		input ports.DirectOrderInput
		want  error
	}{
		"missing user":     {ports.DirectOrderInput{Lines: lines("0001", 1), PaymentID: "p", ProviderOrderID: "o"}, ErrValidation},
		"missing payment":  {ports.DirectOrderInput{UserID: "u", Lines: lines("0001", 1), ProviderOrderID: "o"}, ErrValidation},
		"missing order id": {ports.DirectOrderInput{UserID: "u", Lines: lines("0001", 1), PaymentID: "p"}, ErrValidation},
		"no lines":         {ports.DirectOrderInput{UserID: "u", PaymentID: "p", ProviderOrderID: "o"}, ErrValidation},
		"zero quantity":    {ports.DirectOrderInput{UserID: "u", Lines: lines("0001", 0), PaymentID: "p", ProviderOrderID: "o"}, ErrInvalidQuantity},
		"unknown item":     {ports.DirectOrderInput{UserID: "u", Lines: lines("nope", 1), PaymentID: "p", ProviderOrderID: "o"}, ErrInvalidItem},
		"wrong currency":   {ports.DirectOrderInput{UserID: "u", Lines: lines("0001", 1), PaymentID: "p", ProviderOrderID: "o", Currency: "USD"}, ErrValidation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.svc.CreateOrder(context.Background(), tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}
	require.Zero(t, h.repo.Len())
	require.Zero(t, h.scheduler.count())
}

func TestCreatePaymentIntent_ForwardsAmount(t *testing.T) {
	h := newHarness(t)

	intent, err := h.svc.CreatePaymentIntent(context.Background(), ports.PaymentIntentInput{UserID: "u1", Amount: 19800})
	require.NoError(t, err)
	require.NotEmpty(t, intent.ProviderOrderID)
	require.Equal(t, int64(19800), intent.Amount)
	require.Equal(t, "u1", h.provider.Requests()[0].Notes["user_id"])
	require.Zero(t, h.repo.Len())
}

func TestVerifyAndSave_HappyPath(t *testing.T) {
	h := newHarness(t)
	intent, err := h.svc.CreatePaymentIntent(context.Background(), ports.PaymentIntentInput{UserID: "u1", Amount: 19800})
	require.NoError(t, err)

	order, err := h.svc.VerifyAndSave(context.Background(), ports.VerifyAndSaveInput{
		UserID:       "u1",
		Confirmation: signedConfirmation(intent.ProviderOrderID, "pay_1"),
		Lines:        lines("0001", 2),
		ClaimedTotal: decimal.RequireFromString("198"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, order.Status)
	require.Equal(t, int64(19800), order.Total)
	require.Equal(t, intent.ProviderOrderID, order.ProviderOrderID)
	require.Equal(t, "pay_1", order.PaymentID)
	require.Equal(t, 1, h.scheduler.count())
}

func TestVerifyAndSave_InvalidSignatureStopsEverything(t *testing.T) {
	h := newHarness(t)
	seedIntent(h.provider, "order_1", 19800)

	conf := domain.PaymentConfirmation{
		ProviderOrderID:   "order_1",
		ProviderPaymentID: "pay_1",
		Signature:         Sign("order_1", "pay_1", "some-other-secret"),
	}
	_, err := h.svc.VerifyAndSave(context.Background(), ports.VerifyAndSaveInput{
		UserID:       "u1",
		Confirmation: conf,
		// Even a broken cart must not be reported ahead of the signature.
		Lines:        lines("nope", 0),
		ClaimedTotal: decimal.RequireFromString("198"),
	})
	require.ErrorIs(t, err, ErrInvalidSignature)
	require.Zero(t, h.repo.Len())
	require.Zero(t, h.scheduler.count())
}

func TestVerifyAndSave_TotalMismatchPersistsNothing(t *testing.T) {
	h := newHarness(t)
	seedIntent(h.provider, "order_1", 19800)

	_, err := h.svc.VerifyAndSave(context.Background(), ports.VerifyAndSaveInput{
		UserID:       "u1",
		Confirmation: signedConfirmation("order_1", "pay_1"),
		Lines:        lines("0001", 2),
		ClaimedTotal: decimal.RequireFromString("199"),
	})
	require.ErrorIs(t, err, ErrTotalMismatch)
	require.Zero(t, h.repo.Len())
	require.Zero(t, h.scheduler.count())
}

func TestVerifyAndSave_IntentAmountMustMatchCart(t *testing.T) {
	h := newHarness(t)
	seedIntent(h.provider, "order_1", 100)

	_, err := h.svc.VerifyAndSave(context.Background(), ports.VerifyAndSaveInput{
		UserID:       "u1",
		Confirmation: signedConfirmation("order_1", "pay_1"),
		Lines:        lines("0001", 2),
		ClaimedTotal: decimal.RequireFromString("198"),
	})
	require.ErrorIs(t, err, ErrTotalMismatch)
	require.Zero(t, h.repo.Len())
}

func TestVerifyAndSave_IntentCheckCanBeDisabled(t *testing.T) {
	h := newHarness(t, WithIntentAmountCheck(false))

	order, err := h.svc.VerifyAndSave(context.Background(), ports.VerifyAndSaveInput{
		UserID:       "u1",
		Confirmation: signedConfirmation("order_unknown", "pay_1"),
		Lines:        lines("0001", 2),
		ClaimedTotal: decimal.RequireFromString("198"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, order.Status)
	require.Empty(t, h.provider.Requests())
}

func TestVerifyAndSave_ConcurrentReplaysOnlyOneSucceeds(t *testing.T) {
	h := newHarness(t)
	seedIntent(h.provider, "order_1", 19800)
	input := ports.VerifyAndSaveInput{
		UserID:       "u1",
		Confirmation: signedConfirmation("order_1", "pay_1"),
		Lines:        lines("0001", 2),
		ClaimedTotal: decimal.RequireFromString("198"),
	}

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.svc.VerifyAndSave(context.Background(), input)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, ErrDuplicateOrder)
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, h.repo.Len())
	require.Equal(t, 1, h.scheduler.count())
}

func TestVerifyAndSave_RequiresConfirmationFields(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.VerifyAndSave(context.Background(), ports.VerifyAndSaveInput{
		UserID:       "u1",
		Confirmation: domain.PaymentConfirmation{ProviderOrderID: "order_1", ProviderPaymentID: "pay_1"},
		Lines:        lines("0001", 1),
		ClaimedTotal: decimal.RequireFromString("99"),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestListOrders_NewestFirstAndBounded(t *testing.T) {
	h := newHarness(t)
	for i, pay := range []string{"pay_1", "pay_2", "pay_3"} {
		h.now = h.now.Add(time.Duration(i+1) * time.Minute)
		_, err := h.svc.CreateOrder(context.Background(), ports.DirectOrderInput{
			UserID: "u1", Lines: lines("0001", 1), PaymentID: pay, ProviderOrderID: "order_" + pay,
		})
		require.NoError(t, err)
	}

	orders, err := h.svc.ListOrders(context.Background(), "u1", ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Equal(t, "pay_3", orders[0].PaymentID)
	require.Equal(t, "pay_1", orders[2].PaymentID)

	orders, err = h.svc.ListOrders(context.Background(), "u1", ports.ListFilter{Limit: 2, Status: domain.StatusPending})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	orders, err = h.svc.ListOrders(context.Background(), "someone-else", ports.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, orders)

	_, err = h.svc.ListOrders(context.Background(), "u1", ports.ListFilter{Status: "shipped"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = h.svc.ListOrders(context.Background(), "", ports.ListFilter{})
	require.ErrorIs(t, err, ErrValidation)
}
