package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sequence"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/aquaclean/aquaclean-backend-go/internal/service/statistics"
	"github.com/shopspring/decimal"
)

const (
	defaultMinimumStock  = 10
	defaultMovementLimit = 50
)

type InventoryServiceImpl struct {
	tx           database.Transactor
	itemRepo     inventory.ItemRepository
	movementRepo inventory.MovementRepository
	sequenceRepo sequence.SequenceRepository
	ledger       inventory.Ledger
	loc          *time.Location
	now          func() time.Time
}

func NewInventoryService(
	tx database.Transactor,
	itemRepo inventory.ItemRepository,
	movementRepo inventory.MovementRepository,
	sequenceRepo sequence.SequenceRepository,
	ledger inventory.Ledger,
	loc *time.Location,
) inventory.InventoryService {
	return &InventoryServiceImpl{
		tx:           tx,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		sequenceRepo: sequenceRepo,
		ledger:       ledger,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *InventoryServiceImpl) respond(item inventory.Item) inventory.ItemResponse {
	return inventory.NewItemResponse(item, s.now())
}

func (s *InventoryServiceImpl) respondAll(items []inventory.Item) []inventory.ItemResponse {
	now := s.now()
	out := make([]inventory.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, inventory.NewItemResponse(item, now))
	}
	return out
}

// Create implements inventory.InventoryService. The item starts empty and any
// initial quantity is booked through the ledger.
func (s *InventoryServiceImpl) Create(ctx context.Context, req inventory.CreateItemRequest) (inventory.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return inventory.ItemResponse{}, err
	}

	now := s.now().In(s.loc)
	item := inventory.Item{
		Name:         strings.TrimSpace(req.Name),
		Category:     inventory.Category(req.Category),
		Subcategory:  req.Subcategory,
		Description:  req.Description,
		Unit:         inventory.Unit(req.Unit),
		Quantity:     decimal.Zero,
		MinimumStock: decimal.NewFromInt(defaultMinimumStock),
		MaximumStock: req.MaximumStock,
		UnitPrice:    req.UnitPrice,
		Supplier:     req.Supplier,
		Location:     req.Location,
		BatchNumber:  req.BatchNumber,
		Barcode:      req.Barcode,
		Status:       inventory.ItemStatusActive,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.MinimumStock != nil {
		item.MinimumStock = *req.MinimumStock
	}
	if req.ExpiryDate != nil {
		expiry, err := time.ParseInLocation("2006-01-02", *req.ExpiryDate, s.loc)
		if err != nil {
			return inventory.ItemResponse{}, fmt.Errorf("invalid expiry_date: %w", err)
		}
		item.ExpiryDate = &expiry
	}
	item.Recalculate()

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.sequenceRepo.Next(ctx, inventory.CodeScope(item.Category, now.Year()))
		if err != nil {
			return fmt.Errorf("failed to allocate item code: %w", err)
		}
		item.ItemCode = inventory.FormatCode(item.Category, now.Year(), seq)

		item, err = s.itemRepo.Create(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to create inventory item: %w", err)
		}

		if req.Quantity.IsPositive() {
			item, _, err = s.ledger.Apply(ctx, item.ID, inventory.MovementInput{
				Type:            inventory.MovementIn,
				Quantity:        req.Quantity,
				Reason:          "Initial stock",
				PerformedBy:     req.PerformedBy,
				PerformedByName: req.PerformedByName,
			})
			if err != nil {
				return fmt.Errorf("failed to record initial stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return inventory.ItemResponse{}, err
	}

	slog.Info("inventory item created", "item_id", item.ID, "item_code", item.ItemCode)
	return s.respond(item), nil
}

// GetByID implements inventory.InventoryService.
func (s *InventoryServiceImpl) GetByID(ctx context.Context, id string) (inventory.ItemResponse, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return inventory.ItemResponse{}, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return s.respond(item), nil
}

// List implements inventory.InventoryService.
func (s *InventoryServiceImpl) List(ctx context.Context, filter inventory.ItemFilter) (inventory.ListItemResponse, error) {
	if err := filter.Validate(); err != nil {
		return inventory.ListItemResponse{}, err
	}

	items, total, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return inventory.ListItemResponse{}, fmt.Errorf("failed to list inventory items: %w", err)
	}

	return inventory.ListItemResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Items:      s.respondAll(items),
	}, nil
}

// Update implements inventory.InventoryService. Quantity is never changed
// here; price and minimum changes refresh the derived fields.
func (s *InventoryServiceImpl) Update(ctx context.Context, req inventory.UpdateItemRequest) (inventory.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return inventory.ItemResponse{}, err
	}

	var updated inventory.Item
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		if err := req.Apply(&item, s.loc); err != nil {
			return err
		}
		item.UpdatedAt = s.now()

		updated, err = s.itemRepo.Update(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to update inventory item: %w", err)
		}
		return nil
	})
	if err != nil {
		return inventory.ItemResponse{}, err
	}
	return s.respond(updated), nil
}

// Delete implements inventory.InventoryService. Sale lines keep the item
// name, so history stays readable.
func (s *InventoryServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	slog.Info("inventory item deleted", "item_id", id)
	return nil
}

// UpdateStock implements inventory.InventoryService.
func (s *InventoryServiceImpl) UpdateStock(ctx context.Context, req inventory.UpdateStockRequest) (inventory.StockUpdateResponse, error) {
	if err := req.Validate(); err != nil {
		return inventory.StockUpdateResponse{}, err
	}

	item, movement, err := s.ledger.Apply(ctx, req.ID, req.MovementInput())
	if err != nil {
		return inventory.StockUpdateResponse{}, err
	}
	return inventory.StockUpdateResponse{Item: s.respond(item), Movement: movement}, nil
}

// ListLowStock implements inventory.InventoryService.
func (s *InventoryServiceImpl) ListLowStock(ctx context.Context) ([]inventory.ItemResponse, error) {
	lowStock := true
	items, _, err := s.itemRepo.List(ctx, inventory.ItemFilter{LowStock: &lowStock, SortBy: "quantity", SortOrder: "asc"})
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return s.respondAll(items), nil
}

// ListExpiring implements inventory.InventoryService. Items already past
// their expiry date are not included.
func (s *InventoryServiceImpl) ListExpiring(ctx context.Context, days int) ([]inventory.ItemResponse, error) {
	if days <= 0 {
		days = inventory.ExpiringSoonDays
	}
	now := s.now()
	horizon := now.AddDate(0, 0, days)

	items, _, err := s.itemRepo.List(ctx, inventory.ItemFilter{ExpiringBefore: &horizon, SortBy: "expiry_date", SortOrder: "asc"})
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring items: %w", err)
	}

	out := make([]inventory.ItemResponse, 0, len(items))
	for _, item := range items {
		if item.ExpiryDate != nil && !item.ExpiryDate.Before(now) {
			out = append(out, inventory.NewItemResponse(item, now))
		}
	}
	return out, nil
}

// ListMovements implements inventory.InventoryService.
func (s *InventoryServiceImpl) ListMovements(ctx context.Context, itemID string, limit int) ([]inventory.StockMovement, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMovementLimit
	}

	movements, err := s.movementRepo.List(ctx, inventory.MovementFilter{ItemID: &itemID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

// GetStatistics implements inventory.InventoryService.
func (s *InventoryServiceImpl) GetStatistics(ctx context.Context) (inventory.Statistics, error) {
	items, _, err := s.itemRepo.List(ctx, inventory.ItemFilter{})
	if err != nil {
		return inventory.Statistics{}, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return statistics.Inventory(items, s.now()), nil
}

// GetMovementStatistics implements inventory.InventoryService.
func (s *InventoryServiceImpl) GetMovementStatistics(ctx context.Context, req inventory.MovementStatisticsRequest) (inventory.MovementStatistics, error) {
	if err := req.Validate(s.loc); err != nil {
		return inventory.MovementStatistics{}, err
	}

	movements, err := s.movementRepo.List(ctx, inventory.MovementFilter{StartDate: req.From, EndDate: req.To})
	if err != nil {
		return inventory.MovementStatistics{}, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return statistics.Movements(movements, s.loc), nil
}
