package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/metrics"
)

type LedgerImpl struct {
	tx           database.Transactor
	itemRepo     inventory.ItemRepository
	movementRepo inventory.MovementRepository
	now          func() time.Time
}

func NewLedger(tx database.Transactor, itemRepo inventory.ItemRepository, movementRepo inventory.MovementRepository) inventory.Ledger {
	return &LedgerImpl{
		tx:           tx,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
}

// Apply implements inventory.Ledger. The item row is locked, the new
// quantity computed, and the item update and movement insert committed
// together. On failure neither is written.
func (l *LedgerImpl) Apply(ctx context.Context, itemID string, in inventory.MovementInput) (inventory.Item, inventory.StockMovement, error) {
	var (
		updated  inventory.Item
		movement inventory.StockMovement
	)

	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := l.itemRepo.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		next, entry, err := inventory.ApplyMovement(item, in, l.now())
		if err != nil {
			return err
		}

		updated, err = l.itemRepo.Update(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to update item stock: %w", err)
		}
		movement, err = l.movementRepo.Create(ctx, entry)
		if err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return inventory.Item{}, inventory.StockMovement{}, err
	}

	metrics.StockMovementCounter.WithLabelValues(string(movement.Type)).Inc()
	return updated, movement, nil
}
