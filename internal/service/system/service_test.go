package system

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/storage"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 2, 30, 0, 0, time.UTC)

type fixture struct {
	svc   *SystemServiceImpl
	repos Repositories
	dir   string
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	repos := Repositories{
		Users:      memory.NewUserRepository(store),
		Employees:  memory.NewEmployeeRepository(store),
		Items:      memory.NewItemRepository(store),
		Movements:  memory.NewMovementRepository(store),
		Sales:      memory.NewSaleRepository(store),
		Attendance: memory.NewAttendanceRepository(store),
		Sequences:  memory.NewSequenceRepository(store),
		Settings:   memory.NewSettingsRepository(store),
	}
	defaults := system.DefaultSettings("PHP", "Asia/Manila", decimal.NewFromInt(12))
	svc := NewSystemService(store, store, store, files, repos, defaults, "memory").(*SystemServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, repos: repos, dir: dir}
}

func (f fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := f.repos.Users.Create(ctx, user.User{
		Email:        "admin@aquaclean.com",
		PasswordHash: "$2a$10$hash",
		Role:         user.RoleAdmin,
		IsActive:     true,
	})
	require.NoError(t, err)
	_, err = f.repos.Employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP20240001",
		Email:        "ana@aquaclean.com",
		Department:   employee.DepartmentLaundry,
	})
	require.NoError(t, err)
	item, err := f.repos.Items.Create(ctx, inventory.Item{ItemCode: "LAU20240001", Name: "Detergent", Quantity: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = f.repos.Movements.Create(ctx, inventory.StockMovement{ItemID: item.ID, Type: inventory.MovementIn, Quantity: decimal.NewFromInt(5)})
	require.NoError(t, err)
	require.NoError(t, f.repos.Sequences.Set(ctx, "item:laundry:2024", 1))
}

func TestGetSettings_FallsBackToDefaults(t *testing.T) {
	f := newFixture(t)

	settings, err := f.svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PHP", settings.Business.Currency)
	assert.Equal(t, "Asia/Manila", settings.Business.Timezone)
	assert.True(t, decimal.NewFromInt(12).Equal(settings.Business.TaxRate))
	assert.Nil(t, settings.UpdatedAt)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	updated, err := f.svc.UpdateSettings(ctx, system.UpdateSettingsRequest{
		Business: &system.BusinessSettings{
			TaxRate:  decimal.NewFromInt(10),
			Currency: "USD",
			Timezone: "UTC",
		},
		UpdatedBy: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", updated.Business.Currency)
	assert.Equal(t, "AquaClean Laundry & Water Refilling Station", updated.Company.Name)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, "user-1", *updated.UpdatedBy)

	stored, err := f.repos.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", stored.Business.Currency)
}

func TestUpdateSettings_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		req   system.UpdateSettingsRequest
		field string
	}{
		{
			name:  "tax rate above 100",
			req:   system.UpdateSettingsRequest{Business: &system.BusinessSettings{TaxRate: decimal.NewFromInt(101), Currency: "PHP", Timezone: "UTC"}},
			field: "business.tax_rate",
		},
		{
			name:  "unknown timezone",
			req:   system.UpdateSettingsRequest{Business: &system.BusinessSettings{Currency: "PHP", Timezone: "Mars/Olympus"}},
			field: "business.timezone",
		},
		{
			name:  "retention out of range",
			req:   system.UpdateSettingsRequest{System: &system.SystemSettings{RetentionDays: 400, BackupFrequency: "daily", MaxFileSize: 1, SessionTimeout: 1}},
			field: "system.retention_days",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateSettings(context.Background(), tt.req)
			var ve validator.ValidationErrors
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.ToMap(), tt.field)
		})
	}
}

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	info, err := f.svc.Backup(ctx, system.BackupRequest{CreatedBy: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "aquaclean-backup-2024-03-15T02-30-00-000Z.json", info.FileName)
	assert.FileExists(t, filepath.Join(f.dir, info.FileName))

	// Changes made after the backup are discarded by the restore.
	_, err = f.repos.Items.Create(ctx, inventory.Item{ItemCode: "WAT20240001", Name: "Cap"})
	require.NoError(t, err)
	_, err = f.repos.Sequences.Next(ctx, "item:laundry:2024")
	require.NoError(t, err)

	result, err := f.svc.Restore(ctx, system.RestoreRequest{FileName: info.FileName})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts["users"])
	assert.Equal(t, 1, result.Counts["items"])
	assert.Equal(t, 1, result.Counts["movements"])
	assert.True(t, result.BackupTimestamp.Equal(fixedNow))

	items, total, err := f.repos.Items.List(ctx, inventory.ItemFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "LAU20240001", items[0].ItemCode)

	admin, err := f.repos.Users.GetByEmail(ctx, "admin@aquaclean.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", admin.PasswordHash)

	seqs, err := f.repos.Sequences.All(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, seqs["item:laundry:2024"])
}

func TestRestore_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "future.json"), []byte(`{"version":"9.0.0"}`), 0o644))

	t.Run("missing file", func(t *testing.T) {
		_, err := f.svc.Restore(ctx, system.RestoreRequest{FileName: "nope.json"})
		assert.ErrorIs(t, err, system.ErrBackupNotFound)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("path separator", func(t *testing.T) {
		_, err := f.svc.Restore(ctx, system.RestoreRequest{FileName: "../etc/passwd.json"})
		var ve validator.ValidationErrors
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("not a snapshot", func(t *testing.T) {
		_, err := f.svc.Restore(ctx, system.RestoreRequest{FileName: "broken.json"})
		assert.ErrorIs(t, err, system.ErrInvalidBackup)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := f.svc.Restore(ctx, system.RestoreRequest{FileName: "future.json"})
		assert.ErrorIs(t, err, system.ErrUnsupportedSnapshot)
	})
}

func TestRestore_FailureKeepsCurrentData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	// Two employees sharing a code cannot both be restored.
	snapshot := `{"version":"1.0.0","employees":[
		{"id":"a","employee_code":"EMP1","email":"a@x.com"},
		{"id":"b","employee_code":"EMP1","email":"b@x.com"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "dupes.json"), []byte(snapshot), 0o644))

	_, err := f.svc.Restore(ctx, system.RestoreRequest{FileName: "dupes.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, total, err := f.repos.Items.List(ctx, inventory.ItemFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestListBackups_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Backup(ctx, system.BackupRequest{})
	require.NoError(t, err)
	f.svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	second, err := f.svc.Backup(ctx, system.BackupRequest{})
	require.NoError(t, err)

	older := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(f.dir, first.FileName), older, older))

	backups, err := f.svc.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, second.FileName, backups[0].FileName)
	assert.Equal(t, first.FileName, backups[1].FileName)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	health := f.svc.Health(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "memory", health.Database.Driver)
	assert.Equal(t, "connected", health.Database.Status)
	assert.Positive(t, health.Memory.Goroutines)

	f.svc.pinger = pingFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })
	health = f.svc.Health(context.Background())
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "disconnected", health.Database.Status)
	assert.Contains(t, health.Database.Error, "connection refused")
}
