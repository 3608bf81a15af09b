package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sequence"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/metrics"
	"github.com/aquaclean/aquaclean-backend-go/internal/service/statistics"
	"github.com/shopspring/decimal"
)

type SaleServiceImpl struct {
	tx           database.Transactor
	saleRepo     sale.SaleRepository
	itemRepo     inventory.ItemRepository
	sequenceRepo sequence.SequenceRepository
	ledger       inventory.Ledger
	loc          *time.Location
	now          func() time.Time
}

func NewSaleService(
	tx database.Transactor,
	saleRepo sale.SaleRepository,
	itemRepo inventory.ItemRepository,
	sequenceRepo sequence.SequenceRepository,
	ledger inventory.Ledger,
	loc *time.Location,
) sale.SaleService {
	return &SaleServiceImpl{
		tx:           tx,
		saleRepo:     saleRepo,
		itemRepo:     itemRepo,
		sequenceRepo: sequenceRepo,
		ledger:       ledger,
		loc:          loc,
		now:          time.Now,
	}
}

// reserve locks every item referenced by lines and checks that the summed
// quantity per item is on hand. Nothing is written.
func (s *SaleServiceImpl) reserve(ctx context.Context, lines []sale.LineRequest) (map[string]inventory.Item, error) {
	requested := make(map[string]decimal.Decimal, len(lines))
	order := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, seen := requested[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		requested[line.ItemID] = requested[line.ItemID].Add(line.Quantity)
	}

	items := make(map[string]inventory.Item, len(order))
	for _, id := range order {
		item, err := s.itemRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if item.Quantity.LessThan(requested[id]) {
			return nil, &inventory.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Available: item.Quantity,
				Requested: requested[id],
			}
		}
		items[id] = item
	}
	return items, nil
}

// Create implements sale.SaleService. Every line is validated against
// stock before any of them is decremented; the stock movements and the sale
// commit together or not at all.
func (s *SaleServiceImpl) Create(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, error) {
	if err := req.Validate(); err != nil {
		return sale.Sale{}, err
	}

	now := s.now().In(s.loc)
	newSale := sale.Sale{
		Type:           sale.Type(req.Type),
		Customer:       req.Customer,
		Tax:            req.Tax,
		Discount:       req.Discount,
		PaymentMethod:  sale.PaymentMethod(req.PaymentMethod),
		PaymentStatus:  sale.PaymentStatus(req.PaymentStatus),
		Status:         sale.Status(req.Status),
		Cashier:        req.Cashier,
		CashierName:    req.CashierName,
		Notes:          req.Notes,
		LaundryDetails: req.LaundryDetails,
		WaterDetails:   req.WaterDetails,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		items, err := s.reserve(ctx, req.Items)
		if err != nil {
			return err
		}

		newSale.Items = make([]sale.LineItem, 0, len(req.Items))
		for _, line := range req.Items {
			item := items[line.ItemID]
			li := sale.NewLineItem(item.ID, item.Name, line.Quantity, item.UnitPrice, line.Discount)
			if li.FinalPrice.IsNegative() {
				return sale.ErrLineDiscountTooLarge
			}
			newSale.Items = append(newSale.Items, li)
		}
		newSale.CalculateTotals()
		if newSale.TotalAmount.IsNegative() {
			return sale.ErrNegativeTotal
		}

		seq, err := s.sequenceRepo.Next(ctx, sale.TransactionScope(newSale.Type, now))
		if err != nil {
			return fmt.Errorf("failed to allocate transaction id: %w", err)
		}
		newSale.TransactionID = sale.FormatTransactionID(newSale.Type, now, seq)
		seq, err = s.sequenceRepo.Next(ctx, sale.ReceiptScope(now))
		if err != nil {
			return fmt.Errorf("failed to allocate receipt number: %w", err)
		}
		newSale.ReceiptNumber = sale.FormatReceiptNumber(now, seq)

		for _, li := range newSale.Items {
			_, _, err := s.ledger.Apply(ctx, li.ItemID, inventory.MovementInput{
				Type:            inventory.MovementOut,
				Quantity:        li.Quantity,
				Reason:          "Sale",
				Reference:       newSale.TransactionID,
				PerformedBy:     req.Cashier,
				PerformedByName: req.CashierName,
			})
			if err != nil {
				return err
			}
		}

		newSale, err = s.saleRepo.Create(ctx, newSale)
		if err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.SaleCounter.WithLabelValues(req.Type, "failed").Inc()
		return sale.Sale{}, err
	}

	metrics.SaleCounter.WithLabelValues(req.Type, "completed").Inc()
	metrics.SaleRevenue.WithLabelValues(req.Type).Add(newSale.TotalAmount.InexactFloat64())
	slog.Info("sale recorded",
		"sale_id", newSale.ID,
		"transaction_id", newSale.TransactionID,
		"total_amount", newSale.TotalAmount.String(),
	)
	return newSale, nil
}

// GetByID implements sale.SaleService.
func (s *SaleServiceImpl) GetByID(ctx context.Context, id string) (sale.Sale, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, fmt.Errorf("failed to get sale: %w", err)
	}
	return found, nil
}

// List implements sale.SaleService.
func (s *SaleServiceImpl) List(ctx context.Context, filter sale.SaleFilter) (sale.ListSaleResponse, error) {
	if err := filter.Validate(s.loc); err != nil {
		return sale.ListSaleResponse{}, err
	}

	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return sale.ListSaleResponse{}, fmt.Errorf("failed to list sales: %w", err)
	}

	return sale.ListSaleResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Sales:      sales,
	}, nil
}

// Update implements sale.SaleService.
func (s *SaleServiceImpl) Update(ctx context.Context, req sale.UpdateSaleRequest) (sale.Sale, error) {
	if err := req.Validate(); err != nil {
		return sale.Sale{}, err
	}

	var updated sale.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.saleRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		req.Apply(&existing)
		existing.UpdatedAt = s.now()

		updated, err = s.saleRepo.Update(ctx, existing)
		if err != nil {
			return fmt.Errorf("failed to update sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return sale.Sale{}, err
	}
	return updated, nil
}

// Delete implements sale.SaleService. Sold quantities go back on the shelf
// before the sale is removed; lines whose item no longer exists are skipped.
func (s *SaleServiceImpl) Delete(ctx context.Context, id string, performedBy, performedByName string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.saleRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		for _, li := range existing.Items {
			_, _, err := s.ledger.Apply(ctx, li.ItemID, inventory.MovementInput{
				Type:            inventory.MovementIn,
				Quantity:        li.Quantity,
				Reason:          "Sale deleted",
				Reference:       existing.TransactionID,
				PerformedBy:     performedBy,
				PerformedByName: performedByName,
			})
			if errors.Is(err, inventory.ErrItemNotFound) {
				slog.Warn("skipping stock restore for missing item",
					"sale_id", existing.ID,
					"item_id", li.ItemID,
					"item_name", li.ItemName,
				)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to restore stock for %s: %w", li.ItemName, err)
			}
		}

		if err := s.saleRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}
		slog.Info("sale deleted", "sale_id", existing.ID, "transaction_id", existing.TransactionID)
		return nil
	})
}

func (s *SaleServiceImpl) salesInRange(ctx context.Context, req *sale.StatisticsRequest) ([]sale.Sale, error) {
	if err := req.Validate(s.loc); err != nil {
		return nil, err
	}
	sales, _, err := s.saleRepo.List(ctx, sale.SaleFilter{From: req.From, To: req.To})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// GetStatistics implements sale.SaleService.
func (s *SaleServiceImpl) GetStatistics(ctx context.Context, req sale.StatisticsRequest) (sale.Statistics, error) {
	sales, err := s.salesInRange(ctx, &req)
	if err != nil {
		return sale.Statistics{}, err
	}
	return statistics.Sales(sales, s.loc), nil
}

// GetTopItems implements sale.SaleService.
func (s *SaleServiceImpl) GetTopItems(ctx context.Context, req sale.StatisticsRequest) ([]sale.TopItem, error) {
	sales, err := s.salesInRange(ctx, &req)
	if err != nil {
		return nil, err
	}
	return statistics.TopItems(sales, req.Limit), nil
}
