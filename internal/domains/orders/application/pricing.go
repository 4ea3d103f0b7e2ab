package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	catalogports "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// Quote is a server-computed price for an ordered list of lines. Amounts are minor units.
type Quote struct {
	Lines    []domain.OrderLine
	Total    int64
	Currency string
}

// Pricer computes authoritative totals against the catalog.
type Pricer struct {
	catalog  catalogports.Catalog
	currency string
}

// NewPricer wires the catalog used for authoritative prices.
func NewPricer(catalog catalogports.Catalog, currency string) *Pricer {
	return &Pricer{catalog: catalog, currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Price resolves every line in one catalog batch and sums quantity × unit price in minor
// units. When claimed is non-nil it must equal the computed total exactly.
func (p *Pricer) Price(ctx context.Context, lines []domain.LineRequest, claimed *decimal.Decimal) (*Quote, error) {
	if p == nil || p.catalog == nil {
		return nil, errors.New("pricer not configured")
	}
	if len(lines) == 0 {
		return nil, mapError(domain.ErrEmptyLines)
	}
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for i, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, mapError(err))
		}
		if _, ok := seen[line.ItemID]; !ok {
			seen[line.ItemID] = struct{}{}
			ids = append(ids, line.ItemID)
		}
	}

	items, err := p.catalog.Resolve(ctx, ids)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, mapError(err)
		}
		return nil, fmt.Errorf("resolve catalog: %w", err)
	}

	quote := &Quote{Lines: make([]domain.OrderLine, 0, len(lines)), Currency: p.currency}
	for _, line := range lines {
		item, ok := items[line.ItemID]
		if !ok || item == nil {
			return nil, mapError(catalogports.NewNotFoundError([]string{line.ItemID}))
		}
		unit, err := domain.ToMinor(item.Price, p.currency)
		if err != nil {
			return nil, fmt.Errorf("%w: item %s cannot be priced: %w", ErrInvalidItem, item.ExternalID, err)
		}
		orderLine := domain.OrderLine{
			CatalogItemID: item.ID,
			ItemID:        item.ExternalID,
			Title:         item.Title,
			UnitPrice:     unit,
			Quantity:      line.Quantity,
		}
		subtotal, err := orderLine.Subtotal()
		if err != nil {
			return nil, mapError(err)
		}
		if quote.Total, err = domain.AddMinor(quote.Total, subtotal); err != nil {
			return nil, mapError(err)
		}
		quote.Lines = append(quote.Lines, orderLine)
	}

	if claimed != nil {
		if err := p.CheckClaimed(quote, *claimed); err != nil {
			return nil, err
		}
	}
	return quote, nil
}

// CheckClaimed compares a client total in major units against the quote. Any difference,
// including sub-minor-unit precision, is a mismatch.
func (p *Pricer) CheckClaimed(quote *Quote, claimed decimal.Decimal) error {
	claimedMinor, err := domain.ToMinor(claimed, quote.Currency)
	if err != nil || claimedMinor != quote.Total {
		return fmt.Errorf("%w: expected %s, got %s", ErrTotalMismatch,
			domain.FromMinor(quote.Total, quote.Currency).String(), claimed.String())
	}
	return nil
}
