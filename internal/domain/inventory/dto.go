package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateItemRequest struct {
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Subcategory  string           `json:"subcategory"`
	Description  string           `json:"description"`
	Unit         string           `json:"unit"`
	Quantity     decimal.Decimal  `json:"quantity"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
	MaximumStock *decimal.Decimal `json:"maximum_stock,omitempty"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	Supplier     Supplier         `json:"supplier"`
	Location     string           `json:"location"`
	ExpiryDate   *string          `json:"expiry_date,omitempty"` // YYYY-MM-DD
	BatchNumber  string           `json:"batch_number"`
	Barcode      string           `json:"barcode"`
	Notes        string           `json:"notes"`

	PerformedBy     string `json:"-"`
	PerformedByName string `json:"-"`
}

func (r *CreateItemRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.LengthBetween(r.Name, 2, 100) {
		errs.Add("name", "name must be between 2 and 100 characters")
	}
	if !validator.IsInSlice(r.Category, Categories) {
		errs.Add("category", "category must be one of: "+strings.Join(Categories, ", "))
	}
	if !validator.IsInSlice(r.Unit, Units) {
		errs.Add("unit", "unit must be one of: "+strings.Join(Units, ", "))
	}
	if r.Quantity.IsNegative() {
		errs.Add("quantity", "quantity cannot be negative")
	} else if !validator.HasMaxPlaces(r.Quantity, validator.QuantityPlaces) {
		errs.Add("quantity", "quantity must have at most 3 decimal places")
	}
	if r.MinimumStock != nil && r.MinimumStock.IsNegative() {
		errs.Add("minimum_stock", "minimum_stock cannot be negative")
	}
	if r.MaximumStock != nil && r.MaximumStock.IsNegative() {
		errs.Add("maximum_stock", "maximum_stock cannot be negative")
	}
	if r.UnitPrice.IsNegative() {
		errs.Add("unit_price", "unit_price cannot be negative")
	} else if !validator.HasMaxPlaces(r.UnitPrice, validator.MoneyPlaces) {
		errs.Add("unit_price", "unit_price must have at most 2 decimal places")
	}
	if r.Supplier.Email != "" && !validator.IsValidEmail(r.Supplier.Email) {
		errs.Add("supplier.email", "supplier email must be a valid email address")
	}
	if r.ExpiryDate != nil {
		if _, ok := validator.IsValidDate(*r.ExpiryDate); !ok {
			errs.Add("expiry_date", "expiry_date must be in YYYY-MM-DD format")
		}
	}
	if len(r.Description) > 500 {
		errs.Add("description", "description must not exceed 500 characters")
	}
	if len(r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

// UpdateItemRequest changes descriptive and pricing fields. Quantity is
// deliberately absent: stock only moves through the ledger.
type UpdateItemRequest struct {
	ID           string           `json:"-"`
	Name         *string          `json:"name,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Subcategory  *string          `json:"subcategory,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
	MaximumStock *decimal.Decimal `json:"maximum_stock,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Supplier     *Supplier        `json:"supplier,omitempty"`
	Location     *string          `json:"location,omitempty"`
	ExpiryDate   *string          `json:"expiry_date,omitempty"`
	BatchNumber  *string          `json:"batch_number,omitempty"`
	Barcode      *string          `json:"barcode,omitempty"`
	Status       *string          `json:"status,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

func (r *UpdateItemRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && !validator.LengthBetween(*r.Name, 2, 100) {
		errs.Add("name", "name must be between 2 and 100 characters")
	}
	if r.Category != nil && !validator.IsInSlice(*r.Category, Categories) {
		errs.Add("category", "category must be one of: "+strings.Join(Categories, ", "))
	}
	if r.Unit != nil && !validator.IsInSlice(*r.Unit, Units) {
		errs.Add("unit", "unit must be one of: "+strings.Join(Units, ", "))
	}
	if r.MinimumStock != nil && r.MinimumStock.IsNegative() {
		errs.Add("minimum_stock", "minimum_stock cannot be negative")
	}
	if r.MaximumStock != nil && r.MaximumStock.IsNegative() {
		errs.Add("maximum_stock", "maximum_stock cannot be negative")
	}
	if r.UnitPrice != nil && r.UnitPrice.IsNegative() {
		errs.Add("unit_price", "unit_price cannot be negative")
	} else if r.UnitPrice != nil && !validator.HasMaxPlaces(*r.UnitPrice, validator.MoneyPlaces) {
		errs.Add("unit_price", "unit_price must have at most 2 decimal places")
	}
	if r.Supplier != nil && r.Supplier.Email != "" && !validator.IsValidEmail(r.Supplier.Email) {
		errs.Add("supplier.email", "supplier email must be a valid email address")
	}
	if r.ExpiryDate != nil && *r.ExpiryDate != "" {
		if _, ok := validator.IsValidDate(*r.ExpiryDate); !ok {
			errs.Add("expiry_date", "expiry_date must be in YYYY-MM-DD format")
		}
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, ItemStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(ItemStatuses, ", "))
	}
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

// Apply copies the supplied fields onto item and refreshes derived values.
// An expiry date is read as midnight in loc; an empty one clears it.
func (r *UpdateItemRequest) Apply(item *Item, loc *time.Location) error {
	if r.Name != nil {
		item.Name = strings.TrimSpace(*r.Name)
	}
	if r.Category != nil {
		item.Category = Category(*r.Category)
	}
	if r.Subcategory != nil {
		item.Subcategory = *r.Subcategory
	}
	if r.Description != nil {
		item.Description = *r.Description
	}
	if r.Unit != nil {
		item.Unit = Unit(*r.Unit)
	}
	if r.MinimumStock != nil {
		item.MinimumStock = *r.MinimumStock
	}
	if r.MaximumStock != nil {
		max := *r.MaximumStock
		item.MaximumStock = &max
	}
	if r.UnitPrice != nil {
		item.UnitPrice = *r.UnitPrice
	}
	if r.Supplier != nil {
		item.Supplier = *r.Supplier
	}
	if r.Location != nil {
		item.Location = *r.Location
	}
	if r.ExpiryDate != nil {
		if *r.ExpiryDate == "" {
			item.ExpiryDate = nil
		} else {
			d, err := time.ParseInLocation("2006-01-02", *r.ExpiryDate, loc)
			if err != nil {
				return fmt.Errorf("invalid expiry_date: %w", err)
			}
			item.ExpiryDate = &d
		}
	}
	if r.BatchNumber != nil {
		item.BatchNumber = *r.BatchNumber
	}
	if r.Barcode != nil {
		item.Barcode = *r.Barcode
	}
	if r.Status != nil {
		item.Status = ItemStatus(*r.Status)
	}
	if r.Notes != nil {
		item.Notes = *r.Notes
	}
	item.Recalculate()
	return nil
}

type UpdateStockRequest struct {
	ID        string          `json:"-"`
	Quantity  decimal.Decimal `json:"quantity"`
	Type      string          `json:"type"`
	Reason    string          `json:"reason"`
	Notes     string          `json:"notes"`
	Reference string          `json:"reference"`

	PerformedBy     string `json:"-"`
	PerformedByName string `json:"-"`
}

func (r *UpdateStockRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Quantity.IsNegative() {
		errs.Add("quantity", "quantity cannot be negative")
	} else if !validator.HasMaxPlaces(r.Quantity, validator.QuantityPlaces) {
		errs.Add("quantity", "quantity must have at most 3 decimal places")
	}
	if !validator.IsInSlice(r.Type, MovementTypes) {
		errs.Add("type", "type must be one of: "+strings.Join(MovementTypes, ", "))
	}
	if len(r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
	return errs.Err()
}

// MovementInput converts the request into a ledger input.
func (r *UpdateStockRequest) MovementInput() MovementInput {
	return MovementInput{
		Type:            MovementType(r.Type),
		Quantity:        r.Quantity,
		Reason:          r.Reason,
		Notes:           r.Notes,
		Reference:       r.Reference,
		PerformedBy:     r.PerformedBy,
		PerformedByName: r.PerformedByName,
	}
}

type ItemFilter struct {
	Category *string `json:"category,omitempty"`
	Status   *string `json:"status,omitempty"`
	LowStock *bool   `json:"low_stock,omitempty"`
	Search   *string `json:"search,omitempty"`

	// ExpiringBefore selects items with an expiry date at or before it.
	ExpiringBefore *time.Time `json:"-"`

	// Pagination; a zero Limit on the repository means no paging.
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // name, item_code, quantity, unit_price, expiry_date, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

var itemSortFields = []string{"name", "item_code", "quantity", "unit_price", "expiry_date", "created_at"}

func (f *ItemFilter) Validate() error {
	errs := validator.Pagination(&f.Page, &f.Limit, 10)

	if f.Category != nil && !validator.IsInSlice(*f.Category, Categories) {
		errs.Add("category", "category must be one of: "+strings.Join(Categories, ", "))
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, ItemStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(ItemStatuses, ", "))
	}
	if f.SortBy == "" {
		f.SortBy = "name"
	} else if !validator.IsInSlice(f.SortBy, itemSortFields) {
		errs.Add("sort_by", "sort_by must be one of: "+strings.Join(itemSortFields, ", "))
	}
	errs = append(errs, validator.SortOrder(&f.SortOrder, "asc")...)

	return errs.Err()
}

type MovementFilter struct {
	ItemID    *string    `json:"item_id,omitempty"`
	Type      *string    `json:"type,omitempty"`
	StartDate *time.Time `json:"-"`
	EndDate   *time.Time `json:"-"`
	Limit     int        `json:"limit"`
}

// ItemResponse is an item together with its read-time virtual fields.
type ItemResponse struct {
	Item
	StockStatus     StockStatus  `json:"stock_status"`
	StockPercentage *int64       `json:"stock_percentage"`
	DaysUntilExpiry *int         `json:"days_until_expiry"`
	ExpiryStatus    ExpiryStatus `json:"expiry_status"`
}

func NewItemResponse(item Item, now time.Time) ItemResponse {
	return ItemResponse{
		Item:            item,
		StockStatus:     item.StockStatus(),
		StockPercentage: item.StockPercentage(),
		DaysUntilExpiry: item.DaysUntilExpiry(now),
		ExpiryStatus:    item.ExpiryStatus(now),
	}
}

type ListItemResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Items      []ItemResponse `json:"items"`
}

type StockUpdateResponse struct {
	Item     ItemResponse  `json:"item"`
	Movement StockMovement `json:"movement"`
}

type Statistics struct {
	Overall       OverallStatistics              `json:"overall"`
	ByCategory    map[Category]CategoryStatistic `json:"by_category"`
	ByStockStatus map[StockStatus]int            `json:"by_stock_status"`
	ExpiringItems []ItemResponse                 `json:"expiring_items"`
}

type OverallStatistics struct {
	TotalItems      int             `json:"total_items"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
}

type CategoryStatistic struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
}

type MovementStatisticsRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (r *MovementStatisticsRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors
	r.From, r.To, errs = validator.DateRange(r.StartDate, r.EndDate, loc)
	return errs.Err()
}

type MovementStatistics struct {
	ByType map[MovementType]MovementTypeStatistic `json:"by_type"`
	Daily  []DailyMovementStatistic               `json:"daily"`
}

type MovementTypeStatistic struct {
	Count         int             `json:"count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

type DailyMovementStatistic struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	Count         int             `json:"count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
