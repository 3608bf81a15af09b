package system

import "github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"

var (
	ErrSettingsNotFound    = apperror.New(apperror.ErrNotFound, "settings not found")
	ErrBackupNotFound      = apperror.New(apperror.ErrNotFound, "backup file not found")
	ErrInvalidBackup       = apperror.New(apperror.ErrInvalidState, "backup file is not a valid snapshot")
	ErrUnsupportedSnapshot = apperror.New(apperror.ErrInvalidState, "backup file version is not supported")
)
