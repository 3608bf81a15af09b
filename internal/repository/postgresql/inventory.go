package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type itemRepositoryImpl struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) inventory.ItemRepository {
	return &itemRepositoryImpl{db: db}
}

const itemColumns = `id, item_code, name, category, subcategory, description, unit, quantity,
	minimum_stock, maximum_stock, unit_price, total_value, supplier, location, expiry_date,
	batch_number, barcode, status, is_low_stock, last_restocked, notes, created_at, updated_at`

func scanItem(row scanner) (inventory.Item, error) {
	var i inventory.Item
	err := row.Scan(
		&i.ID, &i.ItemCode, &i.Name, &i.Category, &i.Subcategory, &i.Description, &i.Unit, &i.Quantity,
		&i.MinimumStock, &i.MaximumStock, &i.UnitPrice, &i.TotalValue, &i.Supplier, &i.Location, &i.ExpiryDate,
		&i.BatchNumber, &i.Barcode, &i.Status, &i.IsLowStock, &i.LastRestocked, &i.Notes, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

// Create implements inventory.ItemRepository.
func (r *itemRepositoryImpl) Create(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)

	if item.ID == "" {
		item.ID = uuid.Must(uuid.NewV7()).String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	query := `
		INSERT INTO inventory_items (
			id, item_code, name, category, subcategory, description, unit, quantity,
			minimum_stock, maximum_stock, unit_price, total_value, supplier, location, expiry_date,
			batch_number, barcode, status, is_low_stock, last_restocked, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING ` + itemColumns

	created, err := scanItem(q.QueryRow(ctx, query,
		item.ID, item.ItemCode, item.Name, item.Category, item.Subcategory, item.Description, item.Unit, item.Quantity,
		item.MinimumStock, item.MaximumStock, item.UnitPrice, item.TotalValue, item.Supplier, item.Location, item.ExpiryDate,
		item.BatchNumber, item.Barcode, item.Status, item.IsLowStock, item.LastRestocked, item.Notes, item.CreatedAt, item.UpdatedAt,
	))
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return inventory.Item{}, inventory.ErrItemCodeExists
		}
		return inventory.Item{}, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return created, nil
}

func (r *itemRepositoryImpl) get(ctx context.Context, id string, forUpdate bool) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	item, err := scanItem(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Item{}, inventory.ErrItemNotFound
		}
		return inventory.Item{}, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

// GetByID implements inventory.ItemRepository.
func (r *itemRepositoryImpl) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate implements inventory.ItemRepository. The row lock is held
// until the surrounding transaction ends.
func (r *itemRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (inventory.Item, error) {
	return r.get(ctx, id, true)
}

// List implements inventory.ItemRepository.
func (r *itemRepositoryImpl) List(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Category != nil && *filter.Category != "" {
		baseWhere += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.LowStock != nil {
		baseWhere += fmt.Sprintf(" AND is_low_stock = $%d", argIdx)
		args = append(args, *filter.LowStock)
		argIdx++
	}
	if filter.ExpiringBefore != nil {
		baseWhere += fmt.Sprintf(" AND expiry_date IS NOT NULL AND expiry_date <= $%d", argIdx)
		args = append(args, *filter.ExpiringBefore)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (name ILIKE $%d OR item_code ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM inventory_items WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	orderByField := "name"
	switch filter.SortBy {
	case "item_code", "quantity", "unit_price", "expiry_date", "created_at":
		orderByField = filter.SortBy
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE %s ORDER BY %s %s NULLS LAST, id %s`,
		itemColumns, baseWhere, orderByField, sortOrder, sortOrder)
	if filter.Limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	items := make([]inventory.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate inventory items: %w", err)
	}

	return items, total, nil
}

// Update implements inventory.ItemRepository. The item code is never written.
func (r *itemRepositoryImpl) Update(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)

	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}

	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, subcategory = $3, description = $4, unit = $5, quantity = $6,
			minimum_stock = $7, maximum_stock = $8, unit_price = $9, total_value = $10, supplier = $11,
			location = $12, expiry_date = $13, batch_number = $14, barcode = $15, status = $16,
			is_low_stock = $17, last_restocked = $18, notes = $19, updated_at = $20
		WHERE id = $21
		RETURNING ` + itemColumns

	updated, err := scanItem(q.QueryRow(ctx, query,
		item.Name, item.Category, item.Subcategory, item.Description, item.Unit, item.Quantity,
		item.MinimumStock, item.MaximumStock, item.UnitPrice, item.TotalValue, item.Supplier,
		item.Location, item.ExpiryDate, item.BatchNumber, item.Barcode, item.Status,
		item.IsLowStock, item.LastRestocked, item.Notes, item.UpdatedAt, item.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Item{}, inventory.ErrItemNotFound
		}
		return inventory.Item{}, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return updated, nil
}

// Delete implements inventory.ItemRepository.
func (r *itemRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrItemNotFound
	}
	return nil
}

type movementRepositoryImpl struct {
	db *database.DB
}

func NewMovementRepository(db *database.DB) inventory.MovementRepository {
	return &movementRepositoryImpl{db: db}
}

const movementColumns = `id, item_id, item_code, item_name, type, quantity, previous_quantity, new_quantity,
	unit_price, total_value, reason, notes, reference, performed_by, performed_by_name, created_at`

func scanMovement(row scanner) (inventory.StockMovement, error) {
	var m inventory.StockMovement
	err := row.Scan(
		&m.ID, &m.ItemID, &m.ItemCode, &m.ItemName, &m.Type, &m.Quantity, &m.PreviousQuantity, &m.NewQuantity,
		&m.UnitPrice, &m.TotalValue, &m.Reason, &m.Notes, &m.Reference, &m.PerformedBy, &m.PerformedByName, &m.CreatedAt,
	)
	return m, err
}

// Create implements inventory.MovementRepository.
func (r *movementRepositoryImpl) Create(ctx context.Context, m inventory.StockMovement) (inventory.StockMovement, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = uuid.Must(uuid.NewV7()).String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO stock_movements (
			id, item_id, item_code, item_name, type, quantity, previous_quantity, new_quantity,
			unit_price, total_value, reason, notes, reference, performed_by, performed_by_name, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + movementColumns

	created, err := scanMovement(q.QueryRow(ctx, query,
		m.ID, m.ItemID, m.ItemCode, m.ItemName, m.Type, m.Quantity, m.PreviousQuantity, m.NewQuantity,
		m.UnitPrice, m.TotalValue, m.Reason, m.Notes, m.Reference, m.PerformedBy, m.PerformedByName, m.CreatedAt,
	))
	if err != nil {
		return inventory.StockMovement{}, fmt.Errorf("failed to create stock movement: %w", err)
	}
	return created, nil
}

// List implements inventory.MovementRepository, newest first.
func (r *movementRepositoryImpl) List(ctx context.Context, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.ItemID != nil && *filter.ItemID != "" {
		baseWhere += fmt.Sprintf(" AND item_id = $%d", argIdx)
		args = append(args, *filter.ItemID)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM stock_movements WHERE %s ORDER BY created_at DESC, id DESC`, movementColumns, baseWhere)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	movements := make([]inventory.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
