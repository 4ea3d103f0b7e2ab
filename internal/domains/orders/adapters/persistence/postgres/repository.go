package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for a unique index conflict.
const uniqueViolation = "23505"

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate header to the orders table.
type orderRecord struct {
	ID              string         `gorm:"primaryKey;column:id"`
	UserID          string         `gorm:"column:user_id"`
	ItemIDs         pq.StringArray `gorm:"column:item_ids;type:text[]"`
	TotalMinor      int64          `gorm:"column:total_minor"`
	Currency        string         `gorm:"column:currency"`
	PaymentID       string         `gorm:"column:payment_id"`
	ProviderOrderID string         `gorm:"column:provider_order_id"`
	Status          string         `gorm:"column:status"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderLineRecord stores the priced snapshot of each line.
type orderLineRecord struct {
	OrderID        string `gorm:"primaryKey;column:order_id"`
	Position       int    `gorm:"primaryKey;column:position"`
	CatalogItemID  int64  `gorm:"column:catalog_item_id"`
	ItemID         string `gorm:"column:item_id"`
	Title          string `gorm:"column:title"`
	UnitPriceMinor int64  `gorm:"column:unit_price_minor"`
	Quantity       int    `gorm:"column:quantity"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Create inserts the order and its lines in one transaction. The unique index on
// (provider_order_id, payment_id) arbitrates concurrent inserts.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record, lines := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ports.ErrDuplicateOrder
		}
		return nil, err
	}
	return record.toDomain(lines), nil
}

// GetByID fetches an order and its lines.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.loadLines(ctx, []string{record.ID})
	if err != nil {
		return nil, err
	}
	return record.toDomain(lines[record.ID]), nil
}

// ListByUser returns the user's orders newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var records []orderRecord
	if err := query.Order("created_at DESC").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*domain.Order{}, nil
	}
	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(lines[records[i].ID]))
	}
	return orders, nil
}

func (r *Repository) loadLines(ctx context.Context, orderIDs []string) (map[string][]orderLineRecord, error) {
	var records []orderLineRecord
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("order_id").Order("position").
		Find(&records).Error; err != nil {
		return nil, err
	}
	grouped := make(map[string][]orderLineRecord, len(orderIDs))
	for _, rec := range records {
		grouped[rec.OrderID] = append(grouped[rec.OrderID], rec)
	}
	return grouped, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

// isDuplicate recognises unique violations whether or not GORM translated them.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func toRecord(order *domain.Order) (orderRecord, []orderLineRecord) {
	rec := orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		ItemIDs:         pq.StringArray(order.ItemIDs()),
		TotalMinor:      order.Total,
		Currency:        order.Currency,
		PaymentID:       order.PaymentID,
		ProviderOrderID: order.ProviderOrderID,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
	}
	lines := make([]orderLineRecord, 0, len(order.Lines))
	for i, line := range order.Lines {
		lines = append(lines, orderLineRecord{
			OrderID:        order.ID,
			Position:       i,
			CatalogItemID:  line.CatalogItemID,
			ItemID:         line.ItemID,
			Title:          line.Title,
			UnitPriceMinor: line.UnitPrice,
			Quantity:       line.Quantity,
		})
	}
	return rec, lines
}

func (r orderRecord) toDomain(lines []orderLineRecord) *domain.Order {
	order := &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Total:           r.TotalMinor,
		PaymentID:       r.PaymentID,
		ProviderOrderID: r.ProviderOrderID,
		Currency:        r.Currency,
		Status:          domain.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		Lines:           make([]domain.OrderLine, 0, len(lines)),
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			CatalogItemID: line.CatalogItemID,
			ItemID:        line.ItemID,
			Title:         line.Title,
			UnitPrice:     line.UnitPriceMinor,
			Quantity:      line.Quantity,
		})
	}
	return order
}
