package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. The reconciliation key is
// checked and claimed under the same lock as the insert.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	keys   map[domain.ReconciliationKey]string
	// seq breaks CreatedAt ties so equal timestamps still list in insertion order.
	seq map[string]int64
	n   int64
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[string]*domain.Order{},
		keys:   map[domain.ReconciliationKey]string{},
		seq:    map[string]int64{},
	}
}

// Reset drops every stored order.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = map[string]*domain.Order{}
	r.keys = map[domain.ReconciliationKey]string{}
	r.seq = map[string]int64{}
	r.n = 0
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := cloneOrder(order)
	key := clone.ReconciliationKey()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.keys[key]; exists {
		return nil, ports.ErrDuplicateOrder
	}
	if _, exists := r.orders[clone.ID]; exists {
		return nil, errors.New("order id already in use")
	}
	r.n++
	r.orders[clone.ID] = clone
	r.keys[key] = clone.ID
	r.seq[clone.ID] = r.n
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByUser(_ context.Context, userID string, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if order.UserID != userID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		list = append(list, order)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return r.seq[list[i].ID] > r.seq[list[j].ID]
	})
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	result := make([]*domain.Order, 0, len(list))
	for _, order := range list {
		result = append(result, cloneOrder(order))
	}
	return result, nil
}

// Len reports how many orders are stored.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &clone
}
