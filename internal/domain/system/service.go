package system

import "context"

type SystemService interface {
	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (Settings, error)
	Backup(ctx context.Context, req BackupRequest) (BackupInfo, error)
	ListBackups(ctx context.Context) ([]BackupInfo, error)
	Restore(ctx context.Context, req RestoreRequest) (RestoreResult, error)
	Health(ctx context.Context) Health
}
