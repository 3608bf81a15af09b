package system

import "context"

type SettingsRepository interface {
	// Get returns ErrSettingsNotFound until settings are saved once.
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, settings Settings) error
}

// StoreResetter removes every record from the store, settings and sequences
// included. It is only used by restore, inside a transaction.
type StoreResetter interface {
	Reset(ctx context.Context) error
}
