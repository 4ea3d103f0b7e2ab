package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyExternalID = errors.New("catalog item id is required")
	ErrEmptyTitle      = errors.New("catalog item title is required")
	ErrNegativePrice   = errors.New("catalog item price must not be negative")
	ErrInvalidRating   = errors.New("catalog item rating must be between 0 and 5")
)

// Item is an authoritative menu entry. Prices are in major currency units.
type Item struct {
	ID          int64
	ExternalID  string
	Title       string
	Description string
	Price       decimal.Decimal
	Rating      float64
	ImageURL    string
}

// NewItem validates and constructs a catalog item.
func NewItem(externalID, title, description string, price decimal.Decimal, rating float64, imageURL string) (*Item, error) {
	item := &Item{
		ExternalID:  strings.TrimSpace(externalID),
		Title:       strings.TrimSpace(title),
		Description: description,
		Price:       price,
		Rating:      rating,
		ImageURL:    imageURL,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces invariants on the item.
func (i *Item) Validate() error {
	if i.ExternalID == "" {
		return ErrEmptyExternalID
	}
	if i.Title == "" {
		return ErrEmptyTitle
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	if i.Rating < 0 || i.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
