package memory

import (
	"context"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
)

type itemRepository struct {
	s *Store
}

func NewItemRepository(s *Store) inventory.ItemRepository {
	return &itemRepository{s: s}
}

func (r *itemRepository) Create(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	for _, other := range r.s.items {
		if strings.EqualFold(other.ItemCode, item.ItemCode) {
			return inventory.Item{}, inventory.ErrItemCodeExists
		}
	}
	if item.ID == "" {
		item.ID = newID()
	}
	stamp(&item.CreatedAt, &item.UpdatedAt)
	r.s.items[item.ID] = item
	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	item, ok := r.s.items[id]
	if !ok {
		return inventory.Item{}, inventory.ErrItemNotFound
	}
	return item, nil
}

// GetByIDForUpdate needs no extra locking: a transaction already holds the
// store mutex.
func (r *itemRepository) GetByIDForUpdate(ctx context.Context, id string) (inventory.Item, error) {
	return r.GetByID(ctx, id)
}

func matchItem(item inventory.Item, f inventory.ItemFilter) bool {
	if f.Category != nil && string(item.Category) != *f.Category {
		return false
	}
	if f.Status != nil && string(item.Status) != *f.Status {
		return false
	}
	if f.LowStock != nil && item.IsLowStock != *f.LowStock {
		return false
	}
	if f.ExpiringBefore != nil && (item.ExpiryDate == nil || item.ExpiryDate.After(*f.ExpiringBefore)) {
		return false
	}
	if f.Search != nil && *f.Search != "" {
		q := *f.Search
		if !containsFold(item.Name, q) && !containsFold(item.ItemCode, q) && !containsFold(item.Description, q) {
			return false
		}
	}
	return true
}

func (r *itemRepository) List(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, int64, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	matched := make([]inventory.Item, 0)
	for _, item := range r.s.items {
		if matchItem(item, filter) {
			matched = append(matched, item)
		}
	}

	cmp := func(a, b inventory.Item) int { return strings.Compare(a.Name, b.Name) }
	switch filter.SortBy {
	case "item_code":
		cmp = func(a, b inventory.Item) int { return strings.Compare(a.ItemCode, b.ItemCode) }
	case "quantity":
		cmp = func(a, b inventory.Item) int { return a.Quantity.Cmp(b.Quantity) }
	case "unit_price":
		cmp = func(a, b inventory.Item) int { return a.UnitPrice.Cmp(b.UnitPrice) }
	case "expiry_date":
		cmp = func(a, b inventory.Item) int { return compareOptionalTime(a.ExpiryDate, b.ExpiryDate) }
	case "created_at":
		cmp = func(a, b inventory.Item) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	sortBy(matched, strings.EqualFold(filter.SortOrder, "desc"), cmp, func(i inventory.Item) string { return i.ID })

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

// compareOptionalTime orders nil after every set time, like NULLS LAST.
func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func (r *itemRepository) Update(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	existing, ok := r.s.items[item.ID]
	if !ok {
		return inventory.Item{}, inventory.ErrItemNotFound
	}
	item.ItemCode = existing.ItemCode
	item.CreatedAt = existing.CreatedAt
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}
	r.s.items[item.ID] = item
	return item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.items[id]; !ok {
		return inventory.ErrItemNotFound
	}
	delete(r.s.items, id)
	return nil
}

type movementRepository struct {
	s *Store
}

func NewMovementRepository(s *Store) inventory.MovementRepository {
	return &movementRepository{s: s}
}

func (r *movementRepository) Create(ctx context.Context, movement inventory.StockMovement) (inventory.StockMovement, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	if movement.ID == "" {
		movement.ID = newID()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	r.s.movements = append(r.s.movements, movement)
	return movement, nil
}

// List returns matching movements newest first.
func (r *movementRepository) List(ctx context.Context, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	matched := make([]inventory.StockMovement, 0)
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		if filter.Type != nil && string(m.Type) != *filter.Type {
			continue
		}
		if filter.StartDate != nil && m.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && m.CreatedAt.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, m)
	}
	sortBy(matched, true, func(a, b inventory.StockMovement) int { return a.CreatedAt.Compare(b.CreatedAt) },
		func(m inventory.StockMovement) string { return m.ID })

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}
