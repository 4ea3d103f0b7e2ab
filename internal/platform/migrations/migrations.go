package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&menuItemRecord{},
		&cartItemRecord{},
		&orderRecord{},
		&orderLineRecord{},
	)
}

// Menu schema mirrors the catalog Postgres adapter.
type menuItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	ExternalID  string          `gorm:"column:external_id;size:64;uniqueIndex"`
	Title       string          `gorm:"column:title"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Rating      float64         `gorm:"column:rating"`
	ImageURL    string          `gorm:"column:image_url"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (menuItemRecord) TableName() string { return "menu_items" }

// Cart schema mirrors the carts Postgres adapter. The cart service owns the rows.
type cartItemRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	UserID        string    `gorm:"column:user_id;size:64;index:idx_cart_items_user_item"`
	CatalogItemID int64     `gorm:"column:catalog_item_id;index:idx_cart_items_user_item"`
	Quantity      int       `gorm:"column:quantity;default:1"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

// Order schema mirrors the orders Postgres adapter. The composite unique index is the
// reconciliation key.
type orderRecord struct {
	ID              string         `gorm:"primaryKey;column:id;size:36"`
	UserID          string         `gorm:"column:user_id;size:64;index:idx_orders_user_created,priority:1"`
	ItemIDs         pq.StringArray `gorm:"column:item_ids;type:text[]"`
	TotalMinor      int64          `gorm:"column:total_minor"`
	Currency        string         `gorm:"column:currency;size:3"`
	PaymentID       string         `gorm:"column:payment_id;size:64;uniqueIndex:idx_orders_reconciliation,priority:2"`
	ProviderOrderID string         `gorm:"column:provider_order_id;size:64;uniqueIndex:idx_orders_reconciliation,priority:1"`
	Status          string         `gorm:"column:status;type:varchar(32);index"`
	CreatedAt       time.Time      `gorm:"column:created_at;index:idx_orders_user_created,priority:2,sort:desc"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema mirrors the orders Postgres adapter.
type orderLineRecord struct {
	OrderID        string `gorm:"primaryKey;column:order_id;size:36"`
	Position       int    `gorm:"primaryKey;column:position"`
	CatalogItemID  int64  `gorm:"column:catalog_item_id"`
	ItemID         string `gorm:"column:item_id;size:64"`
	Title          string `gorm:"column:title"`
	UnitPriceMinor int64  `gorm:"column:unit_price_minor"`
	Quantity       int    `gorm:"column:quantity"`
}

func (orderLineRecord) TableName() string { return "order_lines" }
