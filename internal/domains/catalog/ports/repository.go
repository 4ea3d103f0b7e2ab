package ports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("catalog item not found")

// NotFoundError lists every requested identifier that had no catalog match.
type NotFoundError struct {
	IDs []string
}

// NewNotFoundError builds a NotFoundError with sorted, de-duplicated ids.
func NewNotFoundError(ids []string) *NotFoundError {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)
	return &NotFoundError{IDs: unique}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound.Error(), strings.Join(e.IDs, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Catalog resolves client-facing item identifiers to authoritative price records.
type Catalog interface {
	// Resolve returns every requested item keyed by external id, or a *NotFoundError
	// naming all ids without a match. Partial results are never returned.
	Resolve(ctx context.Context, ids []string) (map[string]*domain.Item, error)
}

// Repository adds the maintenance operations used by seeding and administration.
type Repository interface {
	Catalog
	Upsert(ctx context.Context, items []*domain.Item) error
	List(ctx context.Context) ([]*domain.Item, error)
}
