package application

import (
	"errors"
	"fmt"

	catalogports "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

var (
	// ErrValidation signals a malformed request the caller can fix.
	ErrValidation = errors.New("invalid order input")
	// ErrInvalidQuantity signals a line quantity below one.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidItem signals that one or more catalog ids did not resolve.
	ErrInvalidItem = errors.New("invalid catalog item")
	// ErrTotalMismatch signals that the client total disagrees with the server total.
	ErrTotalMismatch = errors.New("total amount mismatch")
	// ErrInvalidSignature signals a payment confirmation that was not signed by the provider.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrDuplicateOrder signals that the payment was already reconciled.
	ErrDuplicateOrder = ports.ErrDuplicateOrder
	// ErrPaymentProviderError signals the provider rejected or failed the call.
	ErrPaymentProviderError = ports.ErrProviderFailure
	// ErrPaymentProviderTimeout signals the provider did not answer within the deadline.
	ErrPaymentProviderTimeout = errors.New("payment provider timeout")
	// ErrStorage signals a persistence failure.
	ErrStorage = errors.New("order storage failure")
)

// ProviderError carries the provider's diagnostic for a failed call.
type ProviderError = ports.ProviderError

// MissingItemIDs extracts the unresolved catalog ids from an ErrInvalidItem chain.
func MissingItemIDs(err error) []string {
	var notFound *catalogports.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.IDs
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidQuantity, err)
	case errors.Is(err, domain.ErrTotalMismatch):
		return fmt.Errorf("%w: %w", ErrTotalMismatch, err)
	case errors.Is(err, catalogports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	case errors.Is(err, domain.ErrEmptyUser),
		errors.Is(err, domain.ErrEmptyLines),
		errors.Is(err, domain.ErrEmptyItemID),
		errors.Is(err, domain.ErrEmptyPaymentID),
		errors.Is(err, domain.ErrEmptyProviderOrderID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrUnknownCurrency),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrFractionalAmount),
		errors.Is(err, domain.ErrAmountOverflow):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

// storageError wraps repository failures that are not part of the domain vocabulary.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrDuplicateOrder) || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
