package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) system.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements system.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (system.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var settings system.Settings
	if err := q.QueryRow(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&settings); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return system.Settings{}, system.ErrSettingsNotFound
		}
		return system.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// Save implements system.SettingsRepository.
func (r *settingsRepositoryImpl) Save(ctx context.Context, settings system.Settings) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (id, data, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	if _, err := q.Exec(ctx, query, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
