package inventory

import "context"

type ItemRepository interface {
	Create(ctx context.Context, item Item) (Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	// GetByIDForUpdate reads the item and, inside a transaction, holds it
	// against concurrent writers until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Item, error)
	List(ctx context.Context, filter ItemFilter) ([]Item, int64, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id string) error
}

type MovementRepository interface {
	Create(ctx context.Context, movement StockMovement) (StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]StockMovement, error)
}
