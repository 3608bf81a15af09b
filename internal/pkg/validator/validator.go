package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns v as an error, or nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

const (
	// MoneyPlaces is the scale of every stored amount.
	MoneyPlaces int32 = 2
	// QuantityPlaces is the scale of stored stock quantities.
	QuantityPlaces int32 = 3
)

// HasMaxPlaces reports whether d is exact at places decimal digits.
func HasMaxPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// LengthBetween reports whether the trimmed length of s is within [min, max].
func LengthBetween(s string, min, max int) bool {
	n := len([]rune(strings.TrimSpace(s)))
	return n >= min && n <= max
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Phone number validation (Philippine mobile and landline formats).
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	if len(phone) < 7 || len(phone) > 13 {
		return false
	}

	if strings.HasPrefix(phone, "+63") {
		return IsNumeric(strings.TrimPrefix(phone, "+63"))
	}
	return IsNumeric(phone)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsValidTimeOfDay checks a 24h "HH:MM" clock value.
func IsValidTimeOfDay(s string) bool {
	return timeOfDayRegex.MatchString(s)
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+08:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	// Try RFC3339 format (ISO8601 with timezone)
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	// Try RFC3339Nano format (with nanoseconds)
	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// Pagination applies the default page and limit and reports out-of-range
// values. A zero limit becomes defaultLimit; limits above 100 are rejected.
func Pagination(page, limit *int, defaultLimit int) ValidationErrors {
	var errs ValidationErrors
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = defaultLimit
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	return errs
}

// SortOrder defaults an empty order to fallback and rejects anything other
// than asc or desc.
func SortOrder(order *string, fallback string) ValidationErrors {
	var errs ValidationErrors
	if *order == "" {
		*order = fallback
		return errs
	}
	*order = strings.ToLower(*order)
	if !IsInSlice(*order, []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}
	return errs
}

// DateRange parses optional YYYY-MM-DD bounds in loc. The end bound is
// returned as the last instant of its day so it can be compared inclusively.
func DateRange(start, end *string, loc *time.Location) (*time.Time, *time.Time, ValidationErrors) {
	var errs ValidationErrors
	var from, to *time.Time
	if start != nil && *start != "" {
		t, err := time.ParseInLocation("2006-01-02", *start, loc)
		if err != nil {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		} else {
			from = &t
		}
	}
	if end != nil && *end != "" {
		t, err := time.ParseInLocation("2006-01-02", *end, loc)
		if err != nil {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			to = &t
		}
	}
	if from != nil && to != nil && to.Before(*from) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	return from, to, errs
}
