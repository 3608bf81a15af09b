package system

import (
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type Settings struct {
	Company       CompanyInfo          `json:"company"`
	Business      BusinessSettings     `json:"business"`
	System        SystemSettings       `json:"system"`
	Notifications NotificationSettings `json:"notifications"`
	UpdatedAt     *time.Time           `json:"updated_at,omitempty"`
	UpdatedBy     *string              `json:"updated_by,omitempty"`
}

type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

type BusinessSettings struct {
	OperatingHours map[string]OpeningHours `json:"operating_hours"`
	TaxRate        decimal.Decimal         `json:"tax_rate"` // percent
	Currency       string                  `json:"currency"`
	Timezone       string                  `json:"timezone"`
}

type OpeningHours struct {
	Open  string `json:"open"`  // HH:MM
	Close string `json:"close"` // HH:MM
}

type SystemSettings struct {
	AutoBackup      bool   `json:"auto_backup"`
	BackupFrequency string `json:"backup_frequency"`
	RetentionDays   int    `json:"retention_days"`
	MaxFileSize     int64  `json:"max_file_size"`   // bytes
	SessionTimeout  int    `json:"session_timeout"` // seconds
}

type NotificationSettings struct {
	Email           bool `json:"email"`
	SMS             bool `json:"sms"`
	LowStockAlert   bool `json:"low_stock_alert"`
	AttendanceAlert bool `json:"attendance_alert"`
}

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var BackupFrequencies = []string{"hourly", "daily", "weekly", "monthly"}

// DefaultSettings are served until an administrator saves settings.
// Currency, timezone and tax rate come from the process configuration.
func DefaultSettings(currency, timezone string, taxRate decimal.Decimal) Settings {
	weekday := OpeningHours{Open: "08:00", Close: "20:00"}
	return Settings{
		Company: CompanyInfo{
			Name:    "AquaClean Laundry & Water Refilling Station",
			Address: "123 Main Street, City, Province",
			Phone:   "+63 912 345 6789",
			Email:   "info@aquaclean.com",
			Website: "www.aquaclean.com",
		},
		Business: BusinessSettings{
			OperatingHours: map[string]OpeningHours{
				"monday":    weekday,
				"tuesday":   weekday,
				"wednesday": weekday,
				"thursday":  weekday,
				"friday":    weekday,
				"saturday":  {Open: "08:00", Close: "18:00"},
				"sunday":    {Open: "09:00", Close: "17:00"},
			},
			TaxRate:  taxRate,
			Currency: currency,
			Timezone: timezone,
		},
		System: SystemSettings{
			AutoBackup:      true,
			BackupFrequency: "daily",
			RetentionDays:   30,
			MaxFileSize:     5 << 20,
			SessionTimeout:  3600,
		},
		Notifications: NotificationSettings{
			Email:           true,
			LowStockAlert:   true,
			AttendanceAlert: true,
		},
	}
}

const SnapshotVersion = "1.0.0"

// Snapshot is the full content of the store as written to a backup file.
type Snapshot struct {
	Version    string                    `json:"version"`
	CreatedAt  time.Time                 `json:"created_at"`
	CreatedBy  string                    `json:"created_by"`
	Users      []UserRecord              `json:"users"`
	Employees  []employee.Employee       `json:"employees"`
	Items      []inventory.Item          `json:"items"`
	Movements  []inventory.StockMovement `json:"movements"`
	Sales      []sale.Sale               `json:"sales"`
	Attendance []attendance.Record       `json:"attendance"`
	Sequences  map[string]int64          `json:"sequences"`
	Settings   *Settings                 `json:"settings,omitempty"`
}

// UserRecord carries the password hash that user.User hides from JSON.
type UserRecord struct {
	user.User
	PasswordHash string `json:"password_hash"`
}

type BackupInfo struct {
	FileName   string    `json:"file_name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type RestoreResult struct {
	RestoredFrom    string         `json:"restored_from"`
	BackupTimestamp time.Time      `json:"backup_timestamp"`
	RestoredAt      time.Time      `json:"restored_at"`
	Counts          map[string]int `json:"counts"`
}

type Health struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    float64           `json:"uptime"` // seconds
	Memory    MemoryStats       `json:"memory"`
	Database  DatabaseHealth    `json:"database"`
	Services  map[string]string `json:"services"`
}

type MemoryStats struct {
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

type DatabaseHealth struct {
	Driver string `json:"driver"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
