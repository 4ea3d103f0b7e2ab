// Package seed loads the default menu shipped with the service.
package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/domain"
)

//go:embed menu.yaml
var defaultMenu []byte

type menuFile struct {
	Items []menuEntry `yaml:"items"`
}

type menuEntry struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Rating      float64 `yaml:"rating"`
	Image       string  `yaml:"image"`
}

// DefaultMenu parses the embedded menu. imageBaseURL is prefixed to relative image paths.
func DefaultMenu(imageBaseURL string) ([]*domain.Item, error) {
	return Parse(defaultMenu, imageBaseURL)
}

// Parse decodes a YAML menu document into validated catalog items.
func Parse(raw []byte, imageBaseURL string) ([]*domain.Item, error) {
	var file menuFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	items := make([]*domain.Item, 0, len(file.Items))
	for _, entry := range file.Items {
		price, err := decimal.NewFromString(strings.TrimSpace(entry.Price))
		if err != nil {
			return nil, fmt.Errorf("menu item %s: invalid price %q: %w", entry.ID, entry.Price, err)
		}
		item, err := domain.NewItem(entry.ID, entry.Title, entry.Description, price, entry.Rating, imageURL(imageBaseURL, entry.Image))
		if err != nil {
			return nil, fmt.Errorf("menu item %s: %w", entry.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func imageURL(base, path string) string {
	if base == "" || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
