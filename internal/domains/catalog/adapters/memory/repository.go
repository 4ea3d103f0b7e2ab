package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog adapter.
type Repository struct {
	mu     sync.RWMutex
	items  map[string]*domain.Item
	nextID int64
}

// NewRepository builds a catalog preloaded with the given items. Any invalid item
// rejects the whole seed.
func NewRepository(items ...*domain.Item) (*Repository, error) {
	r := &Repository{items: map[string]*domain.Item{}}
	if err := r.Upsert(context.Background(), items); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return r, nil
}

func (r *Repository) Resolve(_ context.Context, ids []string) (map[string]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := make(map[string]*domain.Item, len(ids))
	var missing []string
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		clone := *item
		found[id] = &clone
	}
	if len(missing) > 0 {
		return nil, ports.NewNotFoundError(missing)
	}
	return found, nil
}

func (r *Repository) Upsert(_ context.Context, items []*domain.Item) error {
	for _, item := range items {
		if item == nil {
			return errors.New("catalog item is nil")
		}
		if err := item.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		clone := *item
		if existing, ok := r.items[clone.ExternalID]; ok {
			clone.ID = existing.ID
		} else {
			r.nextID++
			clone.ID = r.nextID
		}
		r.items[clone.ExternalID] = &clone
	}
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		clone := *item
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExternalID < list[j].ExternalID })
	return list, nil
}
