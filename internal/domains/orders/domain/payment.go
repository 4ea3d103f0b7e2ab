package domain

// PaymentIntent is the provider-side order a client pays against. It is not persisted here.
type PaymentIntent struct {
	ProviderOrderID string
	Amount          int64
	AmountPaid      int64
	Currency        string
	Receipt         string
	Status          string
}

// PaymentConfirmation is what the client reports after completing checkout with the provider.
type PaymentConfirmation struct {
	ProviderOrderID   string
	ProviderPaymentID string
	Signature         string
}
