package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
}

type CreateSaleRequest struct {
	Type           string          `json:"type"`
	Customer       Customer        `json:"customer"`
	Items          []LineRequest   `json:"items"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	Status         string          `json:"status"`
	Tax            decimal.Decimal `json:"tax"`
	Discount       decimal.Decimal `json:"discount"`
	Notes          string          `json:"notes"`
	LaundryDetails *LaundryDetails `json:"laundry_details,omitempty"`
	WaterDetails   *WaterDetails   `json:"water_details,omitempty"`

	Cashier     string `json:"-"`
	CashierName string `json:"-"`
}

func (r *CreateSaleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Type, Types) {
		errs.Add("type", "type must be one of: "+strings.Join(Types, ", "))
	}
	validateCustomer(&errs, r.Customer)
	if len(r.Items) == 0 {
		errs.Add("items", "at least one item is required")
	}
	for i, line := range r.Items {
		field := fmt.Sprintf("items[%d]", i)
		if validator.IsEmpty(line.ItemID) {
			errs.Add(field+".item_id", "item_id is required")
		}
		if line.Quantity.LessThan(decimal.NewFromInt(1)) {
			errs.Add(field+".quantity", "quantity must be at least 1")
		} else if !validator.HasMaxPlaces(line.Quantity, validator.QuantityPlaces) {
			errs.Add(field+".quantity", "quantity must have at most 3 decimal places")
		}
		if line.Discount.IsNegative() {
			errs.Add(field+".discount", "discount cannot be negative")
		} else if !validator.HasMaxPlaces(line.Discount, validator.MoneyPlaces) {
			errs.Add(field+".discount", "discount must have at most 2 decimal places")
		}
	}
	if !validator.IsInSlice(r.PaymentMethod, PaymentMethods) {
		errs.Add("payment_method", "payment_method must be one of: "+strings.Join(PaymentMethods, ", "))
	}
	if r.PaymentStatus == "" {
		r.PaymentStatus = string(PaymentStatusPending)
	} else if !validator.IsInSlice(r.PaymentStatus, PaymentStatuses) {
		errs.Add("payment_status", "payment_status must be one of: "+strings.Join(PaymentStatuses, ", "))
	}
	if r.Status == "" {
		r.Status = string(StatusCompleted)
	} else if !validator.IsInSlice(r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	if r.Tax.IsNegative() {
		errs.Add("tax", "tax cannot be negative")
	} else if !validator.HasMaxPlaces(r.Tax, validator.MoneyPlaces) {
		errs.Add("tax", "tax must have at most 2 decimal places")
	}
	if r.Discount.IsNegative() {
		errs.Add("discount", "discount cannot be negative")
	} else if !validator.HasMaxPlaces(r.Discount, validator.MoneyPlaces) {
		errs.Add("discount", "discount must have at most 2 decimal places")
	}
	if len(r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
	validateDetails(&errs, r.LaundryDetails, r.WaterDetails)

	return errs.Err()
}

// UpdateSaleRequest covers the fields that may change after checkout.
// Line items and monetary totals are fixed once the sale is recorded.
type UpdateSaleRequest struct {
	ID             string          `json:"-"`
	Customer       *Customer       `json:"customer,omitempty"`
	PaymentStatus  *string         `json:"payment_status,omitempty"`
	Status         *string         `json:"status,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	LaundryDetails *LaundryDetails `json:"laundry_details,omitempty"`
	WaterDetails   *WaterDetails   `json:"water_details,omitempty"`
}

func (r *UpdateSaleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Customer != nil {
		validateCustomer(&errs, *r.Customer)
	}
	if r.PaymentStatus != nil && !validator.IsInSlice(*r.PaymentStatus, PaymentStatuses) {
		errs.Add("payment_status", "payment_status must be one of: "+strings.Join(PaymentStatuses, ", "))
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
	validateDetails(&errs, r.LaundryDetails, r.WaterDetails)

	return errs.Err()
}

func (r *UpdateSaleRequest) Apply(s *Sale) {
	if r.Customer != nil {
		s.Customer = *r.Customer
	}
	if r.PaymentStatus != nil {
		s.PaymentStatus = PaymentStatus(*r.PaymentStatus)
	}
	if r.Status != nil {
		s.Status = Status(*r.Status)
	}
	if r.Notes != nil {
		s.Notes = *r.Notes
	}
	if r.LaundryDetails != nil {
		s.LaundryDetails = r.LaundryDetails
	}
	if r.WaterDetails != nil {
		s.WaterDetails = r.WaterDetails
	}
}

type SaleFilter struct {
	Type          *string `json:"type,omitempty"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	Search        *string `json:"search,omitempty"`
	StartDate     *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate       *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`

	// Pagination; a zero Limit on the repository means no paging.
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // created_at, total_amount, transaction_id
	SortOrder string `json:"sort_order"` // asc, desc
}

var saleSortFields = []string{"created_at", "total_amount", "transaction_id"}

func (f *SaleFilter) Validate(loc *time.Location) error {
	errs := validator.Pagination(&f.Page, &f.Limit, 10)

	if f.Type != nil && !validator.IsInSlice(*f.Type, Types) {
		errs.Add("type", "type must be one of: "+strings.Join(Types, ", "))
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	if f.PaymentStatus != nil && !validator.IsInSlice(*f.PaymentStatus, PaymentStatuses) {
		errs.Add("payment_status", "payment_status must be one of: "+strings.Join(PaymentStatuses, ", "))
	}
	var rangeErrs validator.ValidationErrors
	f.From, f.To, rangeErrs = validator.DateRange(f.StartDate, f.EndDate, loc)
	errs = append(errs, rangeErrs...)
	if f.SortBy == "" {
		f.SortBy = "created_at"
	} else if !validator.IsInSlice(f.SortBy, saleSortFields) {
		errs.Add("sort_by", "sort_by must be one of: "+strings.Join(saleSortFields, ", "))
	}
	errs = append(errs, validator.SortOrder(&f.SortOrder, "desc")...)

	return errs.Err()
}

type ListSaleResponse struct {
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
	Sales      []Sale `json:"sales"`
}

type StatisticsRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Limit     int     `json:"limit"`

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (r *StatisticsRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors
	r.From, r.To, errs = validator.DateRange(r.StartDate, r.EndDate, loc)
	if r.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if r.Limit == 0 {
		r.Limit = 10
	}
	return errs.Err()
}

type Statistics struct {
	Overall         OverallStatistics                `json:"overall"`
	ByType          map[Type]GroupStatistic          `json:"by_type"`
	ByPaymentMethod map[PaymentMethod]GroupStatistic `json:"by_payment_method"`
	Daily           []DailyStatistic                 `json:"daily"`
}

type OverallStatistics struct {
	TotalSales          int             `json:"total_sales"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AvgTransactionValue decimal.Decimal `json:"avg_transaction_value"`
	TotalItems          int             `json:"total_items"`
}

type GroupStatistic struct {
	Count    int             `json:"count"`
	Revenue  decimal.Decimal `json:"revenue"`
	AvgValue decimal.Decimal `json:"avg_value"`
}

type DailyStatistic struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopItem struct {
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
}

func validateCustomer(errs *validator.ValidationErrors, c Customer) {
	if !validator.LengthBetween(c.Name, 2, 100) {
		errs.Add("customer.name", "customer name must be between 2 and 100 characters")
	}
	if c.Email != "" && !validator.IsValidEmail(c.Email) {
		errs.Add("customer.email", "customer email must be a valid email address")
	}
	if c.Phone != "" && !validator.IsValidPhoneNumber(c.Phone) {
		errs.Add("customer.phone", "customer phone must be a valid phone number")
	}
}

func validateDetails(errs *validator.ValidationErrors, laundry *LaundryDetails, water *WaterDetails) {
	if laundry != nil && laundry.ServiceType != "" && !validator.IsInSlice(laundry.ServiceType, LaundryServiceTypes) {
		errs.Add("laundry_details.service_type", "service_type must be one of: "+strings.Join(LaundryServiceTypes, ", "))
	}
	if water != nil && water.ContainerType != "" && !validator.IsInSlice(water.ContainerType, ContainerTypes) {
		errs.Add("water_details.container_type", "container_type must be one of: "+strings.Join(ContainerTypes, ", "))
	}
}
