package dashboard

import (
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// Overview is the landing page summary of every module.
type Overview struct {
	Employees   EmployeeOverview   `json:"employees"`
	Inventory   InventoryOverview  `json:"inventory"`
	Sales       SalesOverview      `json:"sales"`
	Attendance  AttendanceOverview `json:"attendance"`
	GeneratedAt time.Time          `json:"generated_at"`
}

type EmployeeOverview struct {
	Total        int                         `json:"total"`
	Active       int                         `json:"active"`
	ByDepartment map[employee.Department]int `json:"by_department"`
}

type InventoryOverview struct {
	TotalItems   int                      `json:"total_items"`
	TotalValue   decimal.Decimal          `json:"total_value"`
	LowStock     int                      `json:"low_stock"`
	OutOfStock   int                      `json:"out_of_stock"`
	ExpiringSoon []inventory.ItemResponse `json:"expiring_soon"`
}

type SalesOverview struct {
	Today       SalesSummary `json:"today"`
	MonthToDate SalesSummary `json:"month_to_date"`
	Recent      []sale.Sale  `json:"recent"`
}

type SalesSummary struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type AttendanceOverview struct {
	Date       string `json:"date"` // YYYY-MM-DD
	ClockedIn  int    `json:"clocked_in"`
	ClockedOut int    `json:"clocked_out"`
	Present    int    `json:"present"`
	Late       int    `json:"late"`
	Absent     int    `json:"absent"`
}
