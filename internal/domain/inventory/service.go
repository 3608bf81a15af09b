package inventory

import "context"

// Ledger is the only sanctioned path for changing an item's quantity.
type Ledger interface {
	Apply(ctx context.Context, itemID string, in MovementInput) (Item, StockMovement, error)
}

type InventoryService interface {
	Create(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	GetByID(ctx context.Context, id string) (ItemResponse, error)
	List(ctx context.Context, filter ItemFilter) (ListItemResponse, error)
	Update(ctx context.Context, req UpdateItemRequest) (ItemResponse, error)
	Delete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, req UpdateStockRequest) (StockUpdateResponse, error)
	ListLowStock(ctx context.Context) ([]ItemResponse, error)
	ListExpiring(ctx context.Context, days int) ([]ItemResponse, error)
	ListMovements(ctx context.Context, itemID string, limit int) ([]StockMovement, error)
	GetStatistics(ctx context.Context) (Statistics, error)
	GetMovementStatistics(ctx context.Context, req MovementStatisticsRequest) (MovementStatistics, error)
}
