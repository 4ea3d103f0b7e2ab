package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-orders-api/internal/domains/carts/ports"
)

var _ ports.Store = (*Store)(nil)

// Store clears cart lines held in PostgreSQL by the cart service.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed cart store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// cartItemRecord mirrors the cart_items table owned by the cart service.
type cartItemRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	UserID        string    `gorm:"column:user_id;size:64;index:idx_cart_items_user_item"`
	CatalogItemID int64     `gorm:"column:catalog_item_id;index:idx_cart_items_user_item"`
	Quantity      int       `gorm:"column:quantity;default:1"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

// Add inserts a cart line. The cart service owns writes in production; this exists for
// seeding and tests.
func (s *Store) Add(ctx context.Context, line ports.Line) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := cartItemRecord{
		UserID:        line.UserID,
		CatalogItemID: line.CatalogItemID,
		Quantity:      line.Quantity,
		CreatedAt:     line.AddedAt,
	}
	return s.db.WithContext(ctx).Create(&record).Error
}

// ClearBefore deletes the user's cart lines created at or before cutoff.
func (s *Store) ClearBefore(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at <= ?", userID, cutoff).
		Delete(&cartItemRecord{})
	return result.RowsAffected, result.Error
}

// SweepSettled removes cart lines that predate their owner's most recent order. It repairs
// carts whose post-order cleanup never succeeded.
func (s *Store) SweepSettled(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Exec(`
		DELETE FROM cart_items c
		USING (SELECT user_id, MAX(created_at) AS last_order_at FROM orders GROUP BY user_id) o
		WHERE c.user_id = o.user_id AND c.created_at <= o.last_order_at`)
	return result.RowsAffected, result.Error
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres cart store not configured")
	}
	return nil
}
