package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
)

type saleRepository struct {
	s *Store
}

func NewSaleRepository(s *Store) sale.SaleRepository {
	return &saleRepository{s: s}
}

func (r *saleRepository) Create(ctx context.Context, sl sale.Sale) (sale.Sale, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	for _, other := range r.s.sales {
		if other.TransactionID == sl.TransactionID {
			return sale.Sale{}, sale.ErrTransactionIDExists
		}
		if other.ReceiptNumber == sl.ReceiptNumber {
			return sale.Sale{}, sale.ErrReceiptNumberExists
		}
	}
	if sl.ID == "" {
		sl.ID = newID()
	}
	stamp(&sl.CreatedAt, &sl.UpdatedAt)
	sl.Items = slices.Clone(sl.Items)
	r.s.sales[sl.ID] = sl
	return sl, nil
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (sale.Sale, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	sl, ok := r.s.sales[id]
	if !ok {
		return sale.Sale{}, sale.ErrSaleNotFound
	}
	sl.Items = slices.Clone(sl.Items)
	return sl, nil
}

func matchSale(sl sale.Sale, f sale.SaleFilter) bool {
	if f.Type != nil && string(sl.Type) != *f.Type {
		return false
	}
	if f.Status != nil && string(sl.Status) != *f.Status {
		return false
	}
	if f.PaymentStatus != nil && string(sl.PaymentStatus) != *f.PaymentStatus {
		return false
	}
	if f.From != nil && sl.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && sl.CreatedAt.After(*f.To) {
		return false
	}
	if f.Search != nil && *f.Search != "" {
		q := *f.Search
		if !containsFold(sl.Customer.Name, q) && !containsFold(sl.TransactionID, q) && !containsFold(sl.ReceiptNumber, q) {
			return false
		}
	}
	return true
}

func (r *saleRepository) List(ctx context.Context, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	matched := make([]sale.Sale, 0)
	for _, sl := range r.s.sales {
		if matchSale(sl, filter) {
			sl.Items = slices.Clone(sl.Items)
			matched = append(matched, sl)
		}
	}

	cmp := func(a, b sale.Sale) int { return a.CreatedAt.Compare(b.CreatedAt) }
	switch filter.SortBy {
	case "total_amount":
		cmp = func(a, b sale.Sale) int { return a.TotalAmount.Cmp(b.TotalAmount) }
	case "transaction_id":
		cmp = func(a, b sale.Sale) int { return strings.Compare(a.TransactionID, b.TransactionID) }
	}
	desc := filter.SortOrder == "" || strings.EqualFold(filter.SortOrder, "desc")
	sortBy(matched, desc, cmp, func(s sale.Sale) string { return s.ID })

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *saleRepository) Update(ctx context.Context, sl sale.Sale) (sale.Sale, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	existing, ok := r.s.sales[sl.ID]
	if !ok {
		return sale.Sale{}, sale.ErrSaleNotFound
	}
	sl.TransactionID = existing.TransactionID
	sl.ReceiptNumber = existing.ReceiptNumber
	sl.CreatedAt = existing.CreatedAt
	if sl.UpdatedAt.IsZero() {
		sl.UpdatedAt = time.Now()
	}
	sl.Items = slices.Clone(sl.Items)
	r.s.sales[sl.ID] = sl
	return sl, nil
}

func (r *saleRepository) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.sales[id]; !ok {
		return sale.ErrSaleNotFound
	}
	delete(r.s.sales, id)
	return nil
}
