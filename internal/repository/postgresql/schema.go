package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates any missing table or index. Every statement is
// idempotent so it runs on every start.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

type storeResetter struct {
	db *database.DB
}

func NewStoreResetter(db *database.DB) system.StoreResetter {
	return &storeResetter{db: db}
}

// Reset implements system.StoreResetter.
func (r *storeResetter) Reset(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		TRUNCATE users, employees, inventory_items, stock_movements,
		         sales, sale_items, attendance_records, sequences, settings
	`)
	if err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}
