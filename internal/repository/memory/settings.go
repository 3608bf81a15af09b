package memory

import (
	"context"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
)

type settingsRepository struct {
	s *Store
}

func NewSettingsRepository(s *Store) system.SettingsRepository {
	return &settingsRepository{s: s}
}

func (r *settingsRepository) Get(ctx context.Context) (system.Settings, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	if r.s.settings == nil {
		return system.Settings{}, system.ErrSettingsNotFound
	}
	return *r.s.settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings system.Settings) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	r.s.settings = &settings
	return nil
}
