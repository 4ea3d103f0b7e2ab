package application

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

func TestSign_KnownVector(t *testing.T) {
	// echo -n "order_DBJOWzybf0sJbb|pay_29QQoUBi66xm2f" | openssl dgst -sha256 -hmac "EnLs21M47BllR3X8PSFtjtbd"
	sig := Sign("order_DBJOWzybf0sJbb", "pay_29QQoUBi66xm2f", "EnLs21M47BllR3X8PSFtjtbd")
	require.Len(t, sig, 64)
	require.Equal(t, sig, Sign("order_DBJOWzybf0sJbb", "pay_29QQoUBi66xm2f", "EnLs21M47BllR3X8PSFtjtbd"))
}

func TestVerifySignature_AcceptsProviderSignature(t *testing.T) {
	confirmation := domain.PaymentConfirmation{
		ProviderOrderID:   "order_1",
		ProviderPaymentID: "pay_1",
		Signature:         Sign("order_1", "pay_1", "secret"),
	}
	require.True(t, VerifySignature(confirmation, "secret"))
}

func TestVerifySignature_RejectsWrongSecret(t *testing.T) {
	confirmation := domain.PaymentConfirmation{
		ProviderOrderID:   "order_1",
		ProviderPaymentID: "pay_1",
		Signature:         Sign("order_1", "pay_1", "not-the-secret"),
	}
	require.False(t, VerifySignature(confirmation, "secret"))
}

func TestVerifySignature_AnySingleByteChangeInvalidates(t *testing.T) {
	base := domain.PaymentConfirmation{
		ProviderOrderID:   "order_1",
		ProviderPaymentID: "pay_1",
		Signature:         Sign("order_1", "pay_1", "secret"),
	}
	require.True(t, VerifySignature(base, "secret"))

	flip := func(s string, i int) string {
		b := []byte(s)
		b[i] ^= 0x01
		return string(b)
	}
	for i := range base.ProviderOrderID {
		tampered := base
		tampered.ProviderOrderID = flip(base.ProviderOrderID, i)
		require.False(t, VerifySignature(tampered, "secret"), "order id byte %d", i)
	}
	for i := range base.ProviderPaymentID {
		tampered := base
		tampered.ProviderPaymentID = flip(base.ProviderPaymentID, i)
		require.False(t, VerifySignature(tampered, "secret"), "payment id byte %d", i)
	}
	for i := range base.Signature {
		tampered := base
		tampered.Signature = flip(base.Signature, i)
		require.False(t, VerifySignature(tampered, "secret"), "signature byte %d", i)
	}
}

func TestVerifySignature_SeparatorIsSignificant(t *testing.T) {
	sig := Sign("order_1|pay", "1", "secret")
	require.False(t, VerifySignature(domain.PaymentConfirmation{ProviderOrderID: "order_1|pay", ProviderPaymentID: "1", Signature: Sign("order_1", "pay|1", "secret")}, "secret"))
	require.NotEmpty(t, sig)
}

func TestVerifySignature_RejectsEmptyInputs(t *testing.T) {
	require.False(t, VerifySignature(domain.PaymentConfirmation{Signature: Sign("", "", "secret")}, "secret"))
	require.False(t, VerifySignature(domain.PaymentConfirmation{ProviderOrderID: "o", ProviderPaymentID: "p", Signature: Sign("o", "p", "")}, ""))
}
