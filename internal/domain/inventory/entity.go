package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID            string           `json:"id"`
	ItemCode      string           `json:"item_code"`
	Name          string           `json:"name"`
	Category      Category         `json:"category"`
	Subcategory   string           `json:"subcategory,omitempty"`
	Description   string           `json:"description,omitempty"`
	Unit          Unit             `json:"unit"`
	Quantity      decimal.Decimal  `json:"quantity"`
	MinimumStock  decimal.Decimal  `json:"minimum_stock"`
	MaximumStock  *decimal.Decimal `json:"maximum_stock,omitempty"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	Supplier      Supplier         `json:"supplier"`
	Location      string           `json:"location,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	BatchNumber   string           `json:"batch_number,omitempty"`
	Barcode       string           `json:"barcode,omitempty"`
	Status        ItemStatus       `json:"status"`
	IsLowStock    bool             `json:"is_low_stock"`
	LastRestocked *time.Time       `json:"last_restocked,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type Supplier struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Recalculate refreshes the fields derived from quantity, price and the
// minimum stock level. Every write path calls it before persisting.
func (i *Item) Recalculate() {
	i.TotalValue = i.Quantity.Mul(i.UnitPrice).Round(2)
	i.IsLowStock = i.Quantity.LessThanOrEqual(i.MinimumStock)
}

// StockStatus classifies the current quantity against the stock bounds.
func (i Item) StockStatus() StockStatus {
	switch {
	case !i.Quantity.IsPositive():
		return StockStatusOutOfStock
	case i.Quantity.LessThanOrEqual(i.MinimumStock):
		return StockStatusLow
	case i.MaximumStock != nil && i.MaximumStock.IsPositive() && i.Quantity.GreaterThanOrEqual(*i.MaximumStock):
		return StockStatusOverstocked
	default:
		return StockStatusNormal
	}
}

// StockPercentage is quantity relative to the maximum stock, rounded to a
// whole percent. It is nil when no maximum is configured.
func (i Item) StockPercentage() *int64 {
	if i.MaximumStock == nil || !i.MaximumStock.IsPositive() {
		return nil
	}
	pct := i.Quantity.Div(*i.MaximumStock).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return &pct
}

// DaysUntilExpiry counts whole days (rounded up) from now to the expiry date.
func (i Item) DaysUntilExpiry(now time.Time) *int {
	if i.ExpiryDate == nil {
		return nil
	}
	days := int(math.Ceil(i.ExpiryDate.Sub(now).Hours() / 24))
	return &days
}

func (i Item) ExpiryStatus(now time.Time) ExpiryStatus {
	days := i.DaysUntilExpiry(now)
	switch {
	case days == nil:
		return ExpiryStatusNone
	case *days < 0:
		return ExpiryStatusExpired
	case *days <= ExpiringSoonDays:
		return ExpiryStatusExpiringSoon
	default:
		return ExpiryStatusValid
	}
}

// ExpiringSoonDays is the window in which an item counts as expiring soon.
const ExpiringSoonDays = 30

type Category string

const (
	CategoryLaundry        Category = "laundry"
	CategoryWaterRefilling Category = "water_refilling"
	CategoryEquipment      Category = "equipment"
	CategorySupplies       Category = "supplies"
	CategoryMaintenance    Category = "maintenance"
)

var Categories = []string{
	string(CategoryLaundry),
	string(CategoryWaterRefilling),
	string(CategoryEquipment),
	string(CategorySupplies),
	string(CategoryMaintenance),
}

// CodePrefix is the item code prefix for a category.
func (c Category) CodePrefix() string {
	switch c {
	case CategoryLaundry:
		return "LAU"
	case CategoryWaterRefilling:
		return "WAT"
	default:
		return "INV"
	}
}

// CodeScope is the sequence scope for item codes of a category in year.
func CodeScope(c Category, year int) string {
	return fmt.Sprintf("item:%s:%d", c, year)
}

// FormatCode renders an item code such as LAU20240012.
func FormatCode(c Category, year int, seq int64) string {
	return fmt.Sprintf("%s%d%04d", c.CodePrefix(), year, seq)
}

type Unit string

var Units = []string{"piece", "kg", "liter", "gallon", "bottle", "box", "pack", "roll", "set", "pair"}

type ItemStatus string

const (
	ItemStatusActive       ItemStatus = "active"
	ItemStatusInactive     ItemStatus = "inactive"
	ItemStatusDiscontinued ItemStatus = "discontinued"
	ItemStatusOutOfStock   ItemStatus = "out_of_stock"
)

var ItemStatuses = []string{
	string(ItemStatusActive),
	string(ItemStatusInactive),
	string(ItemStatusDiscontinued),
	string(ItemStatusOutOfStock),
}

type StockStatus string

const (
	StockStatusOutOfStock  StockStatus = "out_of_stock"
	StockStatusLow         StockStatus = "low_stock"
	StockStatusOverstocked StockStatus = "overstocked"
	StockStatusNormal      StockStatus = "normal"
)

type ExpiryStatus string

const (
	ExpiryStatusExpired      ExpiryStatus = "expired"
	ExpiryStatusExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryStatusValid        ExpiryStatus = "valid"
	ExpiryStatusNone         ExpiryStatus = "no_expiry"
)

// StockMovement is an append-only ledger entry. Quantity is the signed
// change (NewQuantity - PreviousQuantity).
type StockMovement struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	ItemCode         string          `json:"item_code"`
	ItemName         string          `json:"item_name"`
	Type             MovementType    `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalValue       decimal.Decimal `json:"total_value"`
	Reason           string          `json:"reason"`
	Notes            string          `json:"notes,omitempty"`
	Reference        string          `json:"reference,omitempty"`
	PerformedBy      string          `json:"performed_by"`
	PerformedByName  string          `json:"performed_by_name"`
	CreatedAt        time.Time       `json:"created_at"`
}

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
	MovementDamaged    MovementType = "damaged"
	MovementExpired    MovementType = "expired"
	MovementReturned   MovementType = "returned"
)

var MovementTypes = []string{
	string(MovementIn),
	string(MovementOut),
	string(MovementAdjustment),
	string(MovementDamaged),
	string(MovementExpired),
	string(MovementReturned),
}
