package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type saleRepositoryImpl struct {
	db *database.DB
	tx database.Transactor
}

func NewSaleRepository(db *database.DB) sale.SaleRepository {
	return &saleRepositoryImpl{db: db, tx: NewTransactor(db)}
}

const saleColumns = `id, transaction_id, type, customer, subtotal, tax, discount, total_amount,
	payment_method, payment_status, status, cashier, cashier_name, notes, receipt_number,
	laundry_details, water_details, created_at, updated_at`

func scanSale(row scanner) (sale.Sale, error) {
	var s sale.Sale
	err := row.Scan(
		&s.ID, &s.TransactionID, &s.Type, &s.Customer, &s.Subtotal, &s.Tax, &s.Discount, &s.TotalAmount,
		&s.PaymentMethod, &s.PaymentStatus, &s.Status, &s.Cashier, &s.CashierName, &s.Notes, &s.ReceiptNumber,
		&s.LaundryDetails, &s.WaterDetails, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func saleConflict(err error) error {
	constraint, ok := isUniqueViolation(err)
	if !ok {
		return nil
	}
	if constraint == "sales_receipt_number_key" {
		return sale.ErrReceiptNumberExists
	}
	return sale.ErrTransactionIDExists
}

func (r *saleRepositoryImpl) insertLines(ctx context.Context, saleID string, lines []sale.LineItem) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sale_items (sale_id, line_no, item_id, item_name, quantity, unit_price, total_price, discount, final_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i, line := range lines {
		if _, err := q.Exec(ctx, query,
			saleID, i+1, line.ItemID, line.ItemName, line.Quantity, line.UnitPrice, line.TotalPrice, line.Discount, line.FinalPrice,
		); err != nil {
			return fmt.Errorf("failed to insert sale line %d: %w", i+1, err)
		}
	}
	return nil
}

// loadLines fills the line items of every sale in sales, in line order.
func (r *saleRepositoryImpl) loadLines(ctx context.Context, sales []sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(sales))
	index := make(map[string]int, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		index[s.ID] = i
		sales[i].Items = make([]sale.LineItem, 0)
	}

	rows, err := q.Query(ctx, `
		SELECT sale_id, item_id, item_name, quantity, unit_price, total_price, discount, final_price
		FROM sale_items
		WHERE sale_id = ANY($1)
		ORDER BY sale_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var saleID string
		var line sale.LineItem
		if err := rows.Scan(&saleID, &line.ItemID, &line.ItemName, &line.Quantity, &line.UnitPrice,
			&line.TotalPrice, &line.Discount, &line.FinalPrice); err != nil {
			return fmt.Errorf("failed to scan sale line: %w", err)
		}
		i := index[saleID]
		sales[i].Items = append(sales[i].Items, line)
	}
	return rows.Err()
}

// Create implements sale.SaleRepository. The sale row and its lines are
// written in one transaction.
func (r *saleRepositoryImpl) Create(ctx context.Context, s sale.Sale) (sale.Sale, error) {
	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV7()).String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}

	var created sale.Sale
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO sales (
				id, transaction_id, type, customer, subtotal, tax, discount, total_amount,
				payment_method, payment_status, status, cashier, cashier_name, notes, receipt_number,
				laundry_details, water_details, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			RETURNING ` + saleColumns

		var err error
		created, err = scanSale(q.QueryRow(ctx, query,
			s.ID, s.TransactionID, s.Type, s.Customer, s.Subtotal, s.Tax, s.Discount, s.TotalAmount,
			s.PaymentMethod, s.PaymentStatus, s.Status, s.Cashier, s.CashierName, s.Notes, s.ReceiptNumber,
			s.LaundryDetails, s.WaterDetails, s.CreatedAt, s.UpdatedAt,
		))
		if err != nil {
			if conflict := saleConflict(err); conflict != nil {
				return conflict
			}
			return fmt.Errorf("failed to create sale: %w", err)
		}

		if err := r.insertLines(ctx, created.ID, s.Items); err != nil {
			return err
		}
		created.Items = append(make([]sale.LineItem, 0, len(s.Items)), s.Items...)
		return nil
	})
	if err != nil {
		return sale.Sale{}, err
	}
	return created, nil
}

// GetByID implements sale.SaleRepository.
func (r *saleRepositoryImpl) GetByID(ctx context.Context, id string) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSale(q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sale.Sale{}, sale.ErrSaleNotFound
		}
		return sale.Sale{}, fmt.Errorf("failed to get sale: %w", err)
	}

	sales := []sale.Sale{s}
	if err := r.loadLines(ctx, sales); err != nil {
		return sale.Sale{}, err
	}
	return sales[0], nil
}

// List implements sale.SaleRepository.
func (r *saleRepositoryImpl) List(ctx context.Context, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PaymentStatus != nil && *filter.PaymentStatus != "" {
		baseWhere += fmt.Sprintf(" AND payment_status = $%d", argIdx)
		args = append(args, *filter.PaymentStatus)
		argIdx++
	}
	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (customer->>'name' ILIKE $%d OR transaction_id ILIKE $%d OR receipt_number ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM sales WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	orderByField := "created_at"
	switch filter.SortBy {
	case "total_amount", "transaction_id":
		orderByField = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM sales WHERE %s ORDER BY %s %s, id %s`,
		saleColumns, baseWhere, orderByField, sortOrder, sortOrder)
	if filter.Limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sales: %w", err)
	}
	sales := make([]sale.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sales: %w", err)
	}

	if err := r.loadLines(ctx, sales); err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// Update implements sale.SaleRepository. Transaction id, receipt number and
// creation time are immutable; the line items are replaced.
func (r *saleRepositoryImpl) Update(ctx context.Context, s sale.Sale) (sale.Sale, error) {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}

	var updated sale.Sale
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			UPDATE sales
			SET type = $1, customer = $2, subtotal = $3, tax = $4, discount = $5, total_amount = $6,
				payment_method = $7, payment_status = $8, status = $9, cashier = $10, cashier_name = $11,
				notes = $12, laundry_details = $13, water_details = $14, updated_at = $15
			WHERE id = $16
			RETURNING ` + saleColumns

		var err error
		updated, err = scanSale(q.QueryRow(ctx, query,
			s.Type, s.Customer, s.Subtotal, s.Tax, s.Discount, s.TotalAmount,
			s.PaymentMethod, s.PaymentStatus, s.Status, s.Cashier, s.CashierName,
			s.Notes, s.LaundryDetails, s.WaterDetails, s.UpdatedAt, s.ID,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return sale.ErrSaleNotFound
			}
			return fmt.Errorf("failed to update sale: %w", err)
		}

		if _, err := q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, s.ID); err != nil {
			return fmt.Errorf("failed to clear sale lines: %w", err)
		}
		if err := r.insertLines(ctx, s.ID, s.Items); err != nil {
			return err
		}
		updated.Items = append(make([]sale.LineItem, 0, len(s.Items)), s.Items...)
		return nil
	})
	if err != nil {
		return sale.Sale{}, err
	}
	return updated, nil
}

// Delete implements sale.SaleRepository. Lines go with the sale.
func (r *saleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}
