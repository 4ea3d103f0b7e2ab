package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads and maintains catalog items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// catalogItemRecord maps a catalog item to the menu_items table.
type catalogItemRecord struct {
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

func (catalogItemRecord) TableName() string { return "menu_items" }

// Resolve loads all requested items in a single query.
func (r *Repository) Resolve(ctx context.Context, ids []string) (map[string]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	found := make(map[string]*domain.Item, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var records []catalogItemRecord
	if err := r.db.WithContext(ctx).Where("external_id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		found[records[i].ExternalID] = records[i].toDomain()
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, ports.NewNotFoundError(missing)
	}
	return found, nil
}

// Upsert inserts or refreshes items keyed by external id.
func (r *Repository) Upsert(ctx context.Context, items []*domain.Item) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	records := make([]catalogItemRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			return errors.New("catalog item is nil")
		}
		if err := item.Validate(); err != nil {
			return err
		}
		records = append(records, toRecord(item))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "price", "rating", "image_url", "updated_at"}),
		}).Create(&records).Error
}

// List returns every catalog item ordered by external id.
func (r *Repository) List(ctx context.Context) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []catalogItemRecord
	if err := r.db.WithContext(ctx).Order("external_id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(item *domain.Item) catalogItemRecord {
	return catalogItemRecord{
		ID:          item.ID,
		ExternalID:  item.ExternalID,
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price,
		Rating:      item.Rating,
		ImageURL:    item.ImageURL,
	}
}

func (r catalogItemRecord) toDomain() *domain.Item {
	return &domain.Item{
		ID:          r.ID,
		ExternalID:  r.ExternalID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Rating:      r.Rating,
		ImageURL:    r.ImageURL,
	}
}
