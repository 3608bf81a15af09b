package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*3600)

var fixedNow = time.Date(2024, 3, 15, 14, 0, 0, 0, manila)

type repos struct {
	employees  employee.EmployeeRepository
	items      inventory.ItemRepository
	sales      sale.SaleRepository
	attendance attendance.AttendanceRepository
}

func newRepos() repos {
	store := memory.NewStore()
	return repos{
		employees:  memory.NewEmployeeRepository(store),
		items:      memory.NewItemRepository(store),
		sales:      memory.NewSaleRepository(store),
		attendance: memory.NewAttendanceRepository(store),
	}
}

func (r repos) service() *DashboardServiceImpl {
	svc := NewDashboardService(r.employees, r.items, r.sales, r.attendance, manila).(*DashboardServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seed(t *testing.T, r repos) {
	t.Helper()
	ctx := context.Background()

	emps := []employee.Employee{
		{EmployeeCode: "EMP001", Email: "a@aquaclean.ph", Department: employee.DepartmentLaundry, EmploymentStatus: employee.EmploymentStatusActive},
		{EmployeeCode: "EMP002", Email: "b@aquaclean.ph", Department: employee.DepartmentLaundry, EmploymentStatus: employee.EmploymentStatusActive},
		{EmployeeCode: "EMP003", Email: "c@aquaclean.ph", Department: employee.DepartmentWaterRefilling, EmploymentStatus: employee.EmploymentStatusResigned},
	}
	for _, e := range emps {
		_, err := r.employees.Create(ctx, e)
		require.NoError(t, err)
	}

	expiry := fixedNow.AddDate(0, 0, 10)
	items := []inventory.Item{
		{ItemCode: "LAU20240001", Name: "Detergent", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(50),
			TotalValue: decimal.NewFromInt(250), IsLowStock: true, ExpiryDate: &expiry},
		{ItemCode: "LAU20240002", Name: "Softener", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(80),
			TotalValue: decimal.Zero, IsLowStock: true},
		{ItemCode: "WAT20240001", Name: "Gallon Cap", Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(2),
			TotalValue: decimal.NewFromInt(200)},
	}
	for _, item := range items {
		_, err := r.items.Create(ctx, item)
		require.NoError(t, err)
	}

	sales := []sale.Sale{
		{TransactionID: "LAU2024030001", ReceiptNumber: "RCP2024000001", TotalAmount: decimal.NewFromInt(100),
			CreatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, manila)},
		{TransactionID: "LAU2024030002", ReceiptNumber: "RCP2024000002", TotalAmount: decimal.NewFromInt(40),
			CreatedAt: time.Date(2024, 3, 15, 9, 30, 0, 0, manila)},
		{TransactionID: "WAT2024020001", ReceiptNumber: "RCP2024000003", TotalAmount: decimal.NewFromInt(75),
			CreatedAt: time.Date(2024, 2, 28, 16, 0, 0, 0, manila)},
	}
	for _, sl := range sales {
		_, err := r.sales.Create(ctx, sl)
		require.NoError(t, err)
	}

	today := time.Date(2024, 3, 15, 0, 0, 0, 0, manila)
	in := time.Date(2024, 3, 15, 8, 0, 0, 0, manila)
	out := time.Date(2024, 3, 15, 12, 0, 0, 0, manila)
	records := []attendance.Record{
		{EmployeeID: "e1", Date: today, TimeIn: &in, TimeOut: &out, Status: attendance.StatusPresent},
		{EmployeeID: "e2", Date: today, TimeIn: &in, Status: attendance.StatusLate},
		{EmployeeID: "e3", Date: today, Status: attendance.StatusAbsent},
		{EmployeeID: "e1", Date: today.AddDate(0, 0, -1), TimeIn: &in, Status: attendance.StatusPresent},
	}
	for _, rec := range records {
		_, err := r.attendance.Create(ctx, rec)
		require.NoError(t, err)
	}
}

func TestGetOverview(t *testing.T) {
	r := newRepos()
	seed(t, r)

	overview, err := r.service().GetOverview(context.Background())
	require.NoError(t, err)

	t.Run("employees", func(t *testing.T) {
		assert.Equal(t, 3, overview.Employees.Total)
		assert.Equal(t, 2, overview.Employees.Active)
		assert.Equal(t, 2, overview.Employees.ByDepartment[employee.DepartmentLaundry])
		assert.Equal(t, 1, overview.Employees.ByDepartment[employee.DepartmentWaterRefilling])
	})

	t.Run("inventory", func(t *testing.T) {
		assert.Equal(t, 3, overview.Inventory.TotalItems)
		assert.True(t, decimal.NewFromInt(450).Equal(overview.Inventory.TotalValue))
		assert.Equal(t, 2, overview.Inventory.LowStock)
		assert.Equal(t, 1, overview.Inventory.OutOfStock)
		require.Len(t, overview.Inventory.ExpiringSoon, 1)
		assert.Equal(t, "LAU20240001", overview.Inventory.ExpiringSoon[0].ItemCode)
	})

	t.Run("sales", func(t *testing.T) {
		assert.Equal(t, 1, overview.Sales.Today.Count)
		assert.True(t, decimal.NewFromInt(40).Equal(overview.Sales.Today.Revenue))
		assert.Equal(t, 2, overview.Sales.MonthToDate.Count)
		assert.True(t, decimal.NewFromInt(140).Equal(overview.Sales.MonthToDate.Revenue))
		require.Len(t, overview.Sales.Recent, 3)
		assert.Equal(t, "LAU2024030002", overview.Sales.Recent[0].TransactionID)
	})

	t.Run("attendance", func(t *testing.T) {
		assert.Equal(t, "2024-03-15", overview.Attendance.Date)
		assert.Equal(t, 2, overview.Attendance.ClockedIn)
		assert.Equal(t, 1, overview.Attendance.ClockedOut)
		assert.Equal(t, 1, overview.Attendance.Present)
		assert.Equal(t, 1, overview.Attendance.Late)
		assert.Equal(t, 1, overview.Attendance.Absent)
	})

	assert.True(t, overview.GeneratedAt.Equal(fixedNow))
}

func TestGetOverview_EmptyStore(t *testing.T) {
	overview, err := newRepos().service().GetOverview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, overview.Employees.Total)
	assert.NotNil(t, overview.Employees.ByDepartment)
	assert.True(t, overview.Sales.Today.Revenue.IsZero())
	assert.Empty(t, overview.Sales.Recent)
	assert.Empty(t, overview.Inventory.ExpiringSoon)
}

type failingSales struct {
	sale.SaleRepository
}

func (failingSales) List(context.Context, sale.SaleFilter) ([]sale.Sale, int64, error) {
	return nil, 0, errors.New("connection reset")
}

func TestGetOverview_SectionFailure(t *testing.T) {
	r := newRepos()
	r.sales = failingSales{SaleRepository: r.sales}

	_, err := r.service().GetOverview(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list sales")
}
