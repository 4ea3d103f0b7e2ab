package application

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// SignaturePayload is the message the provider signs for a completed checkout.
func SignaturePayload(providerOrderID, providerPaymentID string) string {
	return providerOrderID + "|" + providerPaymentID
}

// Sign returns the lowercase hex HMAC-SHA256 of the confirmation payload.
func Sign(providerOrderID, providerPaymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(SignaturePayload(providerOrderID, providerPaymentID)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the confirmation was signed with secret. The comparison
// is constant time over the hex encoding.
func VerifySignature(confirmation domain.PaymentConfirmation, secret string) bool {
	if secret == "" || confirmation.ProviderOrderID == "" || confirmation.ProviderPaymentID == "" {
		return false
	}
	expected := Sign(confirmation.ProviderOrderID, confirmation.ProviderPaymentID, secret)
	received := strings.TrimSpace(confirmation.Signature)
	return hmac.Equal([]byte(expected), []byte(received))
}
