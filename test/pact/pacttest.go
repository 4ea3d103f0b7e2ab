//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "orders-api"
	ConsumerName = "checkout-web"

	StateMenuBaseline  = "menu baseline with no orders"
	StateOrderRecorded = "an order for pay_pact_1 is already recorded"
	StateOrdersExist   = "user pact-user has orders"
)

const (
	// Token is the bearer token the provider's static authenticator accepts.
	Token  = "pact-token"
	UserID = "pact-user"

	MenuItemID      = "0001"
	PaymentID       = "pay_pact_1"
	ProviderOrderID = "order_pact_1"
	// SigningSecret signs confirmations on both sides of the contract.
	SigningSecret = "pact_key_secret"
	KeyID         = "rzp_test_pact"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the checkout consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleDirectOrderPayload is a two-plate order against the default menu.
func ExampleDirectOrderPayload() map[string]any {
	return map[string]any{
		"items":     []map[string]any{{"menuItemId": MenuItemID, "quantity": 2}},
		"paymentId": PaymentID,
		"orderId":   ProviderOrderID,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
