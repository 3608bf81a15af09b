package sale

import (
	"context"
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	inventorysvc "github.com/aquaclean/aquaclean-backend-go/internal/service/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*3600)

var fixedNow = time.Date(2024, 3, 4, 9, 0, 0, 0, manila)

type fixture struct {
	svc       sale.SaleService
	items     inventory.ItemRepository
	movements inventory.MovementRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewMovementRepository(store)
	ledger := inventorysvc.NewLedger(store, items, movements)

	svc := NewSaleService(store, memory.NewSaleRepository(store), items, memory.NewSequenceRepository(store), ledger, manila)
	svc.(*SaleServiceImpl).now = func() time.Time { return fixedNow }
	return fixture{svc: svc, items: items, movements: movements}
}

func (f fixture) stock(t *testing.T, name string, qty, price int64) inventory.Item {
	t.Helper()
	item := inventory.Item{
		ItemCode:     "INV" + name,
		Name:         name,
		Category:     inventory.CategorySupplies,
		Unit:         "piece",
		Quantity:     decimal.NewFromInt(qty),
		MinimumStock: decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(price),
		Status:       inventory.ItemStatusActive,
	}
	item.Recalculate()
	created, err := f.items.Create(context.Background(), item)
	require.NoError(t, err)
	return created
}

func (f fixture) quantity(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	item, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity
}

func saleRequest(lines ...sale.LineRequest) sale.CreateSaleRequest {
	return sale.CreateSaleRequest{
		Type:          string(sale.TypeLaundry),
		Customer:      sale.Customer{Name: "Ana Reyes", Phone: "09171234567"},
		Items:         lines,
		PaymentMethod: "cash",
		Cashier:       "emp-1",
		CashierName:   "Maria Santos",
	}
}

func line(itemID string, qty int64) sale.LineRequest {
	return sale.LineRequest{ItemID: itemID, Quantity: decimal.NewFromInt(qty)}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_PricesLinesAndDecrementsStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.stock(t, "Detergent", 10, 25)

	req := saleRequest(sale.LineRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(2), Discount: decimal.NewFromInt(5)})
	req.Tax = decimal.NewFromInt(10)
	req.Discount = decimal.NewFromInt(3)

	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "LAU2024030001", created.TransactionID)
	assert.Equal(t, "RCP2024000001", created.ReceiptNumber)
	assert.Equal(t, sale.PaymentStatusPending, created.PaymentStatus)
	assert.Equal(t, sale.StatusCompleted, created.Status)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Detergent", created.Items[0].ItemName)
	assert.True(t, created.Items[0].TotalPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, created.Items[0].FinalPrice.Equal(decimal.NewFromInt(45)))
	assert.True(t, created.Subtotal.Equal(decimal.NewFromInt(45)))
	assert.True(t, created.TotalAmount.Equal(decimal.NewFromInt(52)))

	assert.True(t, f.quantity(t, item.ID).Equal(decimal.NewFromInt(8)))

	history, err := f.movements.List(ctx, inventory.MovementFilter{ItemID: &item.ID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, inventory.MovementOut, history[0].Type)
	assert.Equal(t, created.TransactionID, history[0].Reference)
	assert.True(t, history[0].Quantity.Equal(decimal.NewFromInt(-2)))

	fetched, err := f.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TransactionID, fetched.TransactionID)
	require.Len(t, fetched.Items, 1)
}

func TestCreate_SequencesPerTypeAndYear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.stock(t, "Gallon", 10, 30)

	first, err := f.svc.Create(ctx, saleRequest(line(item.ID, 1)))
	require.NoError(t, err)

	water := saleRequest(line(item.ID, 1))
	water.Type = string(sale.TypeWaterRefilling)
	second, err := f.svc.Create(ctx, water)
	require.NoError(t, err)

	assert.Equal(t, "LAU2024030001", first.TransactionID)
	assert.Equal(t, "WAT2024030001", second.TransactionID)
	assert.Equal(t, "RCP2024000001", first.ReceiptNumber)
	assert.Equal(t, "RCP2024000002", second.ReceiptNumber)
}

func TestCreate_InsufficientStockRollsBackEveryLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.stock(t, "Detergent", 10, 25)
	b := f.stock(t, "Softener", 1, 40)

	_, err := f.svc.Create(ctx, saleRequest(line(a.ID, 2), line(b.ID, 3)))
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)

	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, b.ID, stockErr.ItemID)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(1)))
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(3)))

	assert.True(t, f.quantity(t, a.ID).Equal(decimal.NewFromInt(10)))
	assert.True(t, f.quantity(t, b.ID).Equal(decimal.NewFromInt(1)))

	history, err := f.movements.List(ctx, inventory.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, history)

	list, err := f.svc.List(ctx, sale.SaleFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)

	// The failed attempt consumed no identifiers.
	ok, err := f.svc.Create(ctx, saleRequest(line(a.ID, 2)))
	require.NoError(t, err)
	assert.Equal(t, "LAU2024030001", ok.TransactionID)
}

func TestCreate_SumsRepeatedLinesBeforeCheckingStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.stock(t, "Detergent", 3, 25)

	_, err := f.svc.Create(ctx, saleRequest(line(item.ID, 2), line(item.ID, 2)))
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.True(t, f.quantity(t, item.ID).Equal(decimal.NewFromInt(3)))
}

func TestCreate_MissingItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), saleRequest(line("missing", 1)))
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestCreate_LineDiscountAboveLineTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.stock(t, "Detergent", 3, 25)

	_, err := f.svc.Create(ctx, saleRequest(sale.LineRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(1), Discount: decimal.NewFromInt(30)}))
	assert.ErrorIs(t, err, apperror.ErrInvalidState)
	assert.True(t, f.quantity(t, item.ID).Equal(decimal.NewFromInt(3)))
}

func TestCreate_FractionalQuantitiesRoundLineTotalsToCents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var lines []sale.LineRequest
	for _, name := range []string{"Softener", "Bleach"} {
		item := inventory.Item{
			ItemCode:     "INV" + name,
			Name:         name,
			Category:     inventory.CategoryLaundry,
			Unit:         "liter",
			Quantity:     decimal.NewFromInt(10),
			MinimumStock: decimal.NewFromInt(1),
			UnitPrice:    decimal.RequireFromString("12.25"),
			Status:       inventory.ItemStatusActive,
		}
		item.Recalculate()
		created, err := f.items.Create(ctx, item)
		require.NoError(t, err)
		lines = append(lines, sale.LineRequest{ItemID: created.ID, Quantity: decimal.RequireFromString("1.5")})
	}

	created, err := f.svc.Create(ctx, saleRequest(lines...))
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	sum := decimal.Zero
	for _, l := range created.Items {
		assert.Equal(t, "18.38", l.TotalPrice.StringFixed(2))
		assert.True(t, l.FinalPrice.Equal(l.FinalPrice.Round(2)), "final price %s has sub-cent digits", l.FinalPrice)
		sum = sum.Add(l.FinalPrice)
	}
	assert.True(t, created.Subtotal.Equal(sum))
	assert.Equal(t, "36.76", created.Subtotal.StringFixed(2))
	assert.True(t, created.TotalAmount.Equal(created.Subtotal))
	assert.True(t, f.quantity(t, lines[0].ItemID).Equal(decimal.RequireFromString("8.5")))
}

func TestCreate_RejectsSubCentAmounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.stock(t, "Detergent", 10, 25)

	req := saleRequest(sale.LineRequest{
		ItemID:   item.ID,
		Quantity: decimal.RequireFromString("1.2345"),
		Discount: decimal.RequireFromString("0.125"),
	})
	req.Tax = decimal.RequireFromString("1.005")
	req.Discount = decimal.RequireFromString("0.001")

	_, err := f.svc.Create(ctx, req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "items[0].quantity")
	assert.Contains(t, fields, "items[0].discount")
	assert.Contains(t, fields, "tax")
	assert.Contains(t, fields, "discount")
	assert.True(t, f.quantity(t, item.ID).Equal(decimal.NewFromInt(10)))
}

func TestCreate_ValidationError(t *testing.T) {
	f := newFixture(t)

	req := saleRequest()
	req.Type = "grocery"
	req.PaymentMethod = "barter"

	_, err := f.svc.Create(context.Background(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "items")
	assert.Contains(t, fields, "payment_method")
}

func TestUpdate_ChangesOnlyNonMonetaryFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.stock(t, "Detergent", 10, 25)

	created, err := f.svc.Create(ctx, saleRequest(line(item.ID, 2)))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, sale.UpdateSaleRequest{
		ID:            created.ID,
		PaymentStatus: ptr(string(sale.PaymentStatusPaid)),
		Notes:         ptr("Paid on pickup"),
	})
	require.NoError(t, err)

	assert.Equal(t, sale.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, "Paid on pickup", updated.Notes)
	assert.Equal(t, created.TransactionID, updated.TransactionID)
	assert.True(t, created.TotalAmount.Equal(updated.TotalAmount))
	assert.True(t, f.quantity(t, item.ID).Equal(decimal.NewFromInt(8)))

	_, err = f.svc.Update(ctx, sale.UpdateSaleRequest{ID: "missing"})
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}

func TestDelete_RestoresStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.stock(t, "Detergent", 10, 25)
	b := f.stock(t, "Softener", 5, 40)

	created, err := f.svc.Create(ctx, saleRequest(line(a.ID, 2), line(b.ID, 1)))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID, "admin-1", "System Administrator"))

	assert.True(t, f.quantity(t, a.ID).Equal(decimal.NewFromInt(10)))
	assert.True(t, f.quantity(t, b.ID).Equal(decimal.NewFromInt(5)))

	_, err = f.svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID, "admin-1", "System Administrator"), apperror.ErrNotFound)
}

func TestDelete_SkipsItemsThatNoLongerExist(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.stock(t, "Detergent", 10, 25)
	b := f.stock(t, "Softener", 5, 40)

	created, err := f.svc.Create(ctx, saleRequest(line(a.ID, 2), line(b.ID, 1)))
	require.NoError(t, err)
	require.NoError(t, f.items.Delete(ctx, b.ID))

	require.NoError(t, f.svc.Delete(ctx, created.ID, "admin-1", "System Administrator"))
	assert.True(t, f.quantity(t, a.ID).Equal(decimal.NewFromInt(10)))
}

func TestStatisticsAndTopItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.stock(t, "Detergent", 20, 25)
	b := f.stock(t, "Softener", 20, 40)

	_, err := f.svc.Create(ctx, saleRequest(line(a.ID, 2), line(b.ID, 1)))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, saleRequest(line(a.ID, 3)))
	require.NoError(t, err)

	stats, err := f.svc.GetStatistics(ctx, sale.StatisticsRequest{StartDate: ptr("2024-03-01"), EndDate: ptr("2024-03-31")})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overall.TotalSales)
	assert.True(t, stats.Overall.TotalRevenue.Equal(decimal.NewFromInt(165)))
	assert.Equal(t, 2, stats.ByType[sale.TypeLaundry].Count)
	require.Len(t, stats.Daily, 1)
	assert.Equal(t, "2024-03-04", stats.Daily[0].Date)

	top, err := f.svc.GetTopItems(ctx, sale.StatisticsRequest{})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, a.ID, top[0].ItemID)
	assert.True(t, top[0].TotalQuantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, top[0].TotalRevenue.Equal(decimal.NewFromInt(125)))

	limited, err := f.svc.GetTopItems(ctx, sale.StatisticsRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	outside, err := f.svc.GetStatistics(ctx, sale.StatisticsRequest{StartDate: ptr("2024-04-01")})
	require.NoError(t, err)
	assert.Zero(t, outside.Overall.TotalSales)
}
