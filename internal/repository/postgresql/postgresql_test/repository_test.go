package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestItem(t *testing.T, ctx context.Context, code string, qty int64) inventory.Item {
	t.Helper()
	item := inventory.Item{
		ItemCode:     code,
		Name:         "Detergent " + code,
		Category:     inventory.CategoryLaundry,
		Unit:         "kg",
		Quantity:     decimal.NewFromInt(qty),
		MinimumStock: decimal.NewFromInt(10),
		UnitPrice:    decimal.NewFromInt(50),
		Status:       inventory.ItemStatusActive,
	}
	item.Recalculate()

	created, err := postgresql.NewItemRepository(testDB).Create(ctx, item)
	require.NoError(t, err)
	return created
}

// ===== USER REPOSITORY TESTS =====

func TestUserRepository_CreateAndDuplicateEmail(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(testDB)

	u := user.User{
		Email:        "owner@aquaclean.test",
		PasswordHash: "hash",
		Role:         user.RoleAdmin,
		FirstName:    "Ana",
		LastName:     "Cruz",
		IsActive:     true,
	}
	created, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := repo.GetByEmail(ctx, "owner@aquaclean.test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.Create(ctx, u)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

// ===== SEQUENCE REPOSITORY TESTS =====

func TestSequenceRepository_Next(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewSequenceRepository(testDB)

	first, err := repo.Next(ctx, "receipt:2024")
	require.NoError(t, err)
	second, err := repo.Next(ctx, "receipt:2024")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	require.NoError(t, repo.Set(ctx, "receipt:2024", 41))
	next, err := repo.Next(ctx, "receipt:2024")
	require.NoError(t, err)
	assert.Equal(t, int64(42), next)
}

// ===== TRANSACTOR TESTS =====

func TestTransactor_RollsBackOnError(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()
	item := createTestItem(t, ctx, "LAU20240001", 20)
	items := postgresql.NewItemRepository(testDB)

	boom := errors.New("boom")
	err := postgresql.NewTransactor(testDB).WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := items.GetByIDForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}
		locked.Quantity = decimal.NewFromInt(5)
		locked.Recalculate()
		if _, err := items.Update(ctx, locked); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	reloaded, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Quantity.Equal(decimal.NewFromInt(20)))
}

// ===== SALE REPOSITORY TESTS =====

func TestSaleRepository_LinesRoundTrip(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()
	item := createTestItem(t, ctx, "LAU20240002", 20)
	repo := postgresql.NewSaleRepository(testDB)

	s := sale.Sale{
		TransactionID: "LAU2024030001",
		Type:          sale.TypeLaundry,
		Customer:      sale.Customer{Name: "Walk-in"},
		Items: []sale.LineItem{
			sale.NewLineItem(item.ID, item.Name, decimal.NewFromInt(2), item.UnitPrice, decimal.Zero),
		},
		PaymentMethod: "cash",
		PaymentStatus: sale.PaymentStatusPaid,
		Status:        sale.StatusCompleted,
		Cashier:       "cashier-1",
		ReceiptNumber: "RCP2024000001",
	}
	s.CalculateTotals()

	created, err := repo.Create(ctx, s)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, item.ID, loaded.Items[0].ItemID)

	_, err = repo.Create(ctx, s)
	assert.ErrorIs(t, err, sale.ErrTransactionIDExists)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_OneRecordPerDay(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(testDB)

	loc := time.FixedZone("PHT", 8*3600)
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, loc)
	timeIn := time.Date(2024, 3, 4, 8, 10, 0, 0, loc)
	rec := attendance.Record{
		EmployeeID:   "0190f2a4-5b6c-7d8e-9f00-112233445566",
		EmployeeCode: "EMP20240001",
		EmployeeName: "Ana Cruz",
		Date:         day,
		TimeIn:       &timeIn,
		Status:       attendance.StatusPresent,
		Shift:        attendance.ShiftMorning,
		ShiftStart:   attendance.DefaultShiftStart,
		ShiftEnd:     attendance.DefaultShiftEnd,
	}

	_, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	found, err := repo.GetByEmployeeAndDate(ctx, rec.EmployeeID, day)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", found.Date.Format("2006-01-02"))

	_, err = repo.Create(ctx, rec)
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
}
