package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*3600)

var fixedNow = time.Date(2024, 3, 4, 9, 0, 0, 0, manila)

type fixture struct {
	svc       inventory.InventoryService
	movements inventory.MovementRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewMovementRepository(store)
	ledger := NewLedger(store, items, movements)
	ledger.(*LedgerImpl).now = func() time.Time { return fixedNow }

	svc := NewInventoryService(store, items, movements, memory.NewSequenceRepository(store), ledger, manila)
	svc.(*InventoryServiceImpl).now = func() time.Time { return fixedNow }
	return fixture{svc: svc, movements: movements}
}

func createRequest(name string, qty int64) inventory.CreateItemRequest {
	return inventory.CreateItemRequest{
		Name:            name,
		Category:        string(inventory.CategoryLaundry),
		Unit:            "kg",
		Quantity:        decimal.NewFromInt(qty),
		UnitPrice:       decimal.NewFromInt(50),
		PerformedBy:     "user-1",
		PerformedByName: "Maria Santos",
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_BooksInitialStockThroughLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Create(ctx, createRequest("Detergent Powder", 25))
	require.NoError(t, err)

	assert.Equal(t, "LAU20240001", item.ItemCode)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(25)))
	assert.True(t, item.MinimumStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.TotalValue.Equal(decimal.NewFromInt(1250)))
	assert.False(t, item.IsLowStock)
	assert.Equal(t, inventory.StockStatusNormal, item.StockStatus)
	require.NotNil(t, item.LastRestocked)

	history, err := f.svc.ListMovements(ctx, item.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, inventory.MovementIn, history[0].Type)
	assert.Equal(t, "Initial stock", history[0].Reason)
	assert.Equal(t, "Maria Santos", history[0].PerformedByName)
	assert.True(t, history[0].PreviousQuantity.IsZero())
}

func TestCreate_ZeroQuantityWritesNoMovement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Create(ctx, createRequest("Fabric Softener", 0))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, createRequest("Bleach", 0))
	require.NoError(t, err)

	assert.Equal(t, "LAU20240001", first.ItemCode)
	assert.Equal(t, "LAU20240002", second.ItemCode)
	assert.Equal(t, inventory.StockStatusOutOfStock, first.StockStatus)

	history, err := f.svc.ListMovements(ctx, first.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreate_ValidationError(t *testing.T) {
	f := newFixture(t)

	req := createRequest("X", -1)
	req.Category = "food"

	_, err := f.svc.Create(context.Background(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "quantity")
}

func TestCreate_RejectsSubCentPriceAndFineQuantity(t *testing.T) {
	f := newFixture(t)

	req := createRequest("Fabric Softener", 0)
	req.Quantity = decimal.RequireFromString("2.0005")
	req.UnitPrice = decimal.RequireFromString("10.005")

	_, err := f.svc.Create(context.Background(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "quantity")
	assert.Contains(t, fields, "unit_price")
}

func TestCreate_FractionalStockValueRoundsToCents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := createRequest("Liquid Detergent", 0)
	req.Unit = "liter"
	req.Quantity = decimal.RequireFromString("2.345")
	req.UnitPrice = decimal.RequireFromString("10.01")

	item, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "23.47", item.TotalValue.StringFixed(2))
	assert.True(t, item.TotalValue.Equal(item.TotalValue.Round(2)))

	history, err := f.movements.List(ctx, inventory.MovementFilter{ItemID: &item.ID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "23.47", history[0].TotalValue.StringFixed(2))
}

func TestUpdate_RecalculatesWithoutTouchingQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Create(ctx, createRequest("Detergent Powder", 20))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, inventory.UpdateItemRequest{
		ID:           item.ID,
		UnitPrice:    ptr(decimal.NewFromInt(60)),
		MinimumStock: ptr(decimal.NewFromInt(25)),
	})
	require.NoError(t, err)

	assert.Equal(t, item.ItemCode, updated.ItemCode)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, updated.TotalValue.Equal(decimal.NewFromInt(1200)))
	assert.True(t, updated.IsLowStock)
}

func TestUpdate_ExpiryDateParsedInBusinessZone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Create(ctx, createRequest("Fabric Softener", 5))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, inventory.UpdateItemRequest{ID: item.ID, ExpiryDate: ptr("2024-12-31")})
	require.NoError(t, err)
	require.NotNil(t, updated.ExpiryDate)
	assert.True(t, updated.ExpiryDate.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, manila)))

	cleared, err := f.svc.Update(ctx, inventory.UpdateItemRequest{ID: item.ID, ExpiryDate: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.ExpiryDate)
}

func TestUpdateItemRequest_ApplyRejectsMalformedExpiry(t *testing.T) {
	expiry := time.Date(2024, 6, 1, 0, 0, 0, 0, manila)
	item := inventory.Item{ExpiryDate: &expiry}

	req := inventory.UpdateItemRequest{ExpiryDate: ptr("2024-13-45")}
	err := req.Apply(&item, manila)

	assert.ErrorContains(t, err, "invalid expiry_date")
	require.NotNil(t, item.ExpiryDate)
	assert.True(t, item.ExpiryDate.Equal(expiry))
}

func TestUpdateStock_OutBeyondStockLeavesItemUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Create(ctx, createRequest("Detergent Powder", 5))
	require.NoError(t, err)

	_, err = f.svc.UpdateStock(ctx, inventory.UpdateStockRequest{
		ID:       item.ID,
		Type:     string(inventory.MovementOut),
		Quantity: decimal.NewFromInt(6),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	after, err := f.svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(decimal.NewFromInt(5)))

	history, err := f.svc.ListMovements(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUpdateStock_AdjustmentFlagsLowStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	low, err := f.svc.Create(ctx, createRequest("Detergent Powder", 40))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, createRequest("Fabric Softener", 40))
	require.NoError(t, err)

	res, err := f.svc.UpdateStock(ctx, inventory.UpdateStockRequest{
		ID:       low.ID,
		Type:     string(inventory.MovementAdjustment),
		Quantity: decimal.NewFromInt(4),
		Reason:   "Cycle count",
	})
	require.NoError(t, err)
	assert.True(t, res.Item.IsLowStock)
	assert.True(t, res.Movement.Quantity.Equal(decimal.NewFromInt(-36)))
	assert.True(t, res.Movement.TotalValue.Equal(decimal.NewFromInt(1800)))

	lowStock, err := f.svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, low.ID, lowStock[0].ID)
}

func TestListExpiring_ExcludesExpiredAndDistantItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for name, expiry := range map[string]string{
		"Soon":    "2024-03-10",
		"Later":   "2024-05-01",
		"Expired": "2024-03-01",
	} {
		req := createRequest(name+" Item", 3)
		req.ExpiryDate = ptr(expiry)
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, createRequest("No Expiry", 3))
	require.NoError(t, err)

	expiring, err := f.svc.ListExpiring(ctx, 30)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "Soon Item", expiring[0].Name)
	assert.Equal(t, inventory.ExpiryStatusExpiringSoon, expiring[0].ExpiryStatus)

	wide, err := f.svc.ListExpiring(ctx, 90)
	require.NoError(t, err)
	require.Len(t, wide, 2)
	assert.Equal(t, "Soon Item", wide[0].Name)
	assert.Equal(t, "Later Item", wide[1].Name)
}

func TestList_PaginatesAndSearches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"Detergent Powder", "Detergent Liquid", "Bleach"} {
		_, err := f.svc.Create(ctx, createRequest(name, 1))
		require.NoError(t, err)
	}

	res, err := f.svc.List(ctx, inventory.ItemFilter{Search: ptr("detergent"), Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalCount)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Detergent Liquid", res.Items[0].Name)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Create(ctx, createRequest("Bleach", 1))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, item.ID))
	_, err = f.svc.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, item.ID), inventory.ErrItemNotFound)

	_, err = f.svc.ListMovements(ctx, item.ID, 10)
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Create(ctx, createRequest("Detergent Powder", 20))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, createRequest("Bleach", 0))
	require.NoError(t, err)
	_, err = f.svc.UpdateStock(ctx, inventory.UpdateStockRequest{
		ID:       item.ID,
		Type:     string(inventory.MovementOut),
		Quantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	stats, err := f.svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overall.TotalItems)
	assert.True(t, stats.Overall.TotalQuantity.Equal(decimal.NewFromInt(15)))
	assert.True(t, stats.Overall.TotalValue.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, 1, stats.Overall.OutOfStockItems)

	moves, err := f.svc.GetMovementStatistics(ctx, inventory.MovementStatisticsRequest{
		StartDate: ptr("2024-03-04"),
		EndDate:   ptr("2024-03-04"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, moves.ByType[inventory.MovementIn].Count)
	assert.Equal(t, 1, moves.ByType[inventory.MovementOut].Count)
	assert.True(t, moves.ByType[inventory.MovementOut].TotalQuantity.Equal(decimal.NewFromInt(5)))
	require.Len(t, moves.Daily, 1)
	assert.Equal(t, "2024-03-04", moves.Daily[0].Date)
	assert.Equal(t, 2, moves.Daily[0].Count)

	empty, err := f.svc.GetMovementStatistics(ctx, inventory.MovementStatisticsRequest{StartDate: ptr("2024-03-05")})
	require.NoError(t, err)
	assert.Empty(t, empty.Daily)
}
