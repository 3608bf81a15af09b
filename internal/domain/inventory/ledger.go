package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementInput is one requested quantity change. Quantity is always the
// requested amount; for adjustments it is the new absolute quantity.
type MovementInput struct {
	Type            MovementType
	Quantity        decimal.Decimal
	Reason          string
	Notes           string
	Reference       string
	PerformedBy     string
	PerformedByName string
}

// ApplyMovement computes the item after the movement and the ledger entry
// describing it. The input item is not modified. It fails with
// ErrInvalidQuantity for a negative request, ErrInvalidMovementType for an
// unknown type and ErrNegativeStock when the result would drop below zero.
func ApplyMovement(item Item, in MovementInput, now time.Time) (Item, StockMovement, error) {
	if in.Quantity.IsNegative() {
		return Item{}, StockMovement{}, ErrInvalidQuantity
	}

	previous := item.Quantity
	var next decimal.Decimal
	switch in.Type {
	case MovementIn, MovementReturned:
		next = previous.Add(in.Quantity)
	case MovementOut, MovementDamaged, MovementExpired:
		next = previous.Sub(in.Quantity)
	case MovementAdjustment:
		next = in.Quantity
	default:
		return Item{}, StockMovement{}, ErrInvalidMovementType
	}

	if next.IsNegative() {
		return Item{}, StockMovement{}, ErrNegativeStock
	}

	updated := item
	updated.Quantity = next
	if in.Type == MovementIn {
		restocked := now
		updated.LastRestocked = &restocked
	}
	updated.UpdatedAt = now
	updated.Recalculate()

	delta := next.Sub(previous)
	movement := StockMovement{
		ItemID:           item.ID,
		ItemCode:         item.ItemCode,
		ItemName:         item.Name,
		Type:             in.Type,
		Quantity:         delta,
		PreviousQuantity: previous,
		NewQuantity:      next,
		UnitPrice:        item.UnitPrice,
		TotalValue:       delta.Abs().Mul(item.UnitPrice).Round(2),
		Reason:           in.Reason,
		Notes:            in.Notes,
		Reference:        in.Reference,
		PerformedBy:      in.PerformedBy,
		PerformedByName:  in.PerformedByName,
		CreatedAt:        now,
	}
	if movement.Reason == "" {
		movement.Reason = defaultReason(in.Type)
	}

	return updated, movement, nil
}

func defaultReason(t MovementType) string {
	switch t {
	case MovementIn:
		return "Stock received"
	case MovementOut:
		return "Stock issued"
	case MovementAdjustment:
		return "Stock adjustment"
	case MovementDamaged:
		return "Damaged stock"
	case MovementExpired:
		return "Expired stock"
	case MovementReturned:
		return "Stock returned"
	}
	return ""
}
