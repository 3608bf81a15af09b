package system

import (
	"path/filepath"
	"strings"

	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest replaces whole groups; omitted groups are kept.
type UpdateSettingsRequest struct {
	Company       *CompanyInfo          `json:"company,omitempty"`
	Business      *BusinessSettings     `json:"business,omitempty"`
	System        *SystemSettings       `json:"system,omitempty"`
	Notifications *NotificationSettings `json:"notifications,omitempty"`

	UpdatedBy string `json:"-"`
}

var hundred = decimal.NewFromInt(100)

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Company != nil {
		if !validator.LengthBetween(r.Company.Name, 2, 100) {
			errs.Add("company.name", "company name must be between 2 and 100 characters")
		}
		if r.Company.Email != "" && !validator.IsValidEmail(r.Company.Email) {
			errs.Add("company.email", "please provide a valid email")
		}
	}

	if r.Business != nil {
		if r.Business.TaxRate.IsNegative() || r.Business.TaxRate.GreaterThan(hundred) {
			errs.Add("business.tax_rate", "tax rate must be between 0 and 100")
		}
		if validator.IsEmpty(r.Business.Currency) {
			errs.Add("business.currency", "currency is required")
		}
		if validator.IsEmpty(r.Business.Timezone) {
			errs.Add("business.timezone", "timezone is required")
		}
		for day, hours := range r.Business.OperatingHours {
			if !validator.IsInSlice(day, Weekdays) {
				errs.Add("business.operating_hours", "unknown day: "+day)
				continue
			}
			if !validator.IsValidTimeOfDay(hours.Open) || !validator.IsValidTimeOfDay(hours.Close) {
				errs.Add("business.operating_hours."+day, "open and close must be in HH:MM format")
			}
		}
	}

	if r.System != nil {
		if r.System.RetentionDays < 1 || r.System.RetentionDays > 365 {
			errs.Add("system.retention_days", "retention days must be between 1 and 365")
		}
		if !validator.IsInSlice(r.System.BackupFrequency, BackupFrequencies) {
			errs.Add("system.backup_frequency", "backup frequency must be one of: "+strings.Join(BackupFrequencies, ", "))
		}
		if r.System.MaxFileSize <= 0 {
			errs.Add("system.max_file_size", "max file size must be positive")
		}
		if r.System.SessionTimeout <= 0 {
			errs.Add("system.session_timeout", "session timeout must be positive")
		}
	}

	return errs.Err()
}

// Apply overwrites the groups present in r.
func (r *UpdateSettingsRequest) Apply(s *Settings) {
	if r.Company != nil {
		s.Company = *r.Company
	}
	if r.Business != nil {
		s.Business = *r.Business
	}
	if r.System != nil {
		s.System = *r.System
	}
	if r.Notifications != nil {
		s.Notifications = *r.Notifications
	}
}

type BackupRequest struct {
	CreatedBy string `json:"-"`
}

type RestoreRequest struct {
	FileName string `json:"file_name"`
}

func (r *RestoreRequest) Validate() error {
	var errs validator.ValidationErrors
	switch {
	case validator.IsEmpty(r.FileName):
		errs.Add("file_name", "backup file name is required")
	case strings.ContainsAny(r.FileName, `/\`) || r.FileName != filepath.Base(r.FileName) || strings.HasPrefix(r.FileName, "."):
		errs.Add("file_name", "backup file name must not contain a path")
	case filepath.Ext(r.FileName) != ".json":
		errs.Add("file_name", "backup file must be a .json file")
	}
	return errs.Err()
}
