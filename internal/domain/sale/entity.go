package sale

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	Type           Type            `json:"type"`
	Customer       Customer        `json:"customer"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Discount       decimal.Decimal `json:"discount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	Status         Status          `json:"status"`
	Cashier        string          `json:"cashier"`
	CashierName    string          `json:"cashier_name"`
	Notes          string          `json:"notes,omitempty"`
	ReceiptNumber  string          `json:"receipt_number"`
	LaundryDetails *LaundryDetails `json:"laundry_details,omitempty"`
	WaterDetails   *WaterDetails   `json:"water_details,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// LineItem is owned by its sale and has no lifecycle of its own.
type LineItem struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Discount   decimal.Decimal `json:"discount"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// NewLineItem prices quantity units at unitPrice less discount. The line
// total is rounded to cents so the stored lines add up to the subtotal.
func NewLineItem(itemID, itemName string, quantity, unitPrice, discount decimal.Decimal) LineItem {
	total := unitPrice.Mul(quantity).Round(2)
	return LineItem{
		ItemID:     itemID,
		ItemName:   itemName,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: total,
		Discount:   discount,
		FinalPrice: total.Sub(discount),
	}
}

// CalculateTotals derives subtotal and total amount from the line items,
// tax and discount. The totals are never set any other way.
func (s *Sale) CalculateTotals() {
	subtotal := decimal.Zero
	for _, line := range s.Items {
		subtotal = subtotal.Add(line.FinalPrice)
	}
	s.Subtotal = subtotal
	s.TotalAmount = subtotal.Add(s.Tax).Sub(s.Discount)
}

// ItemCount sums the quantity across all lines.
func (s *Sale) ItemCount() decimal.Decimal {
	count := decimal.Zero
	for _, line := range s.Items {
		count = count.Add(line.Quantity)
	}
	return count
}

type LaundryDetails struct {
	ServiceType   string     `json:"service_type,omitempty"`
	Weight        *float64   `json:"weight,omitempty"`
	Pieces        *int       `json:"pieces,omitempty"`
	ExpectedReady *time.Time `json:"expected_ready,omitempty"`
	ActualReady   *time.Time `json:"actual_ready,omitempty"`
	PickupDate    *time.Time `json:"pickup_date,omitempty"`
	IsPickedUp    bool       `json:"is_picked_up"`
}

var LaundryServiceTypes = []string{"wash_only", "wash_and_dry", "dry_clean", "press_only", "express"}

type WaterDetails struct {
	ContainerType string   `json:"container_type,omitempty"`
	ContainerSize *float64 `json:"container_size,omitempty"`
	RefillCount   *int     `json:"refill_count,omitempty"`
	IsReturned    bool     `json:"is_returned"`
}

var ContainerTypes = []string{"gallon", "bottle", "container"}

type Type string

const (
	TypeLaundry        Type = "laundry"
	TypeWaterRefilling Type = "water_refilling"
	TypeMixed          Type = "mixed"
)

var Types = []string{string(TypeLaundry), string(TypeWaterRefilling), string(TypeMixed)}

func (t Type) prefix() string {
	switch t {
	case TypeLaundry:
		return "LAU"
	case TypeWaterRefilling:
		return "WAT"
	default:
		return "SAL"
	}
}

// TransactionScope is the sequence scope for transaction ids of type t in
// the month of at.
func TransactionScope(t Type, at time.Time) string {
	return fmt.Sprintf("sale:%s:%04d%02d", t, at.Year(), int(at.Month()))
}

// FormatTransactionID renders an id such as LAU2024030042.
func FormatTransactionID(t Type, at time.Time, seq int64) string {
	return fmt.Sprintf("%s%04d%02d%04d", t.prefix(), at.Year(), int(at.Month()), seq)
}

// ReceiptScope is the sequence scope for receipt numbers issued in the year of at.
func ReceiptScope(at time.Time) string {
	return fmt.Sprintf("receipt:%04d", at.Year())
}

// FormatReceiptNumber renders a receipt number such as RCP2024000123.
func FormatReceiptNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("RCP%04d%06d", at.Year(), seq)
}

type PaymentMethod string

var PaymentMethods = []string{"cash", "card", "gcash", "paymaya", "bank_transfer", "online"}

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusCancelled     PaymentStatus = "cancelled"
	PaymentStatusRefunded      PaymentStatus = "refunded"
)

var PaymentStatuses = []string{
	string(PaymentStatusPending),
	string(PaymentStatusPaid),
	string(PaymentStatusPartiallyPaid),
	string(PaymentStatusCancelled),
	string(PaymentStatusRefunded),
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

var Statuses = []string{
	string(StatusCompleted),
	string(StatusPending),
	string(StatusCancelled),
	string(StatusRefunded),
}
