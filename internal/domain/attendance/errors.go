package attendance

import "github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"

var (
	ErrAttendanceNotFound  = apperror.New(apperror.ErrNotFound, "attendance record not found")
	ErrAttendanceExists    = apperror.New(apperror.ErrConflict, "attendance record already exists for this date")
	ErrAlreadyClockedIn    = apperror.New(apperror.ErrInvalidState, "already clocked in today")
	ErrNotClockedIn        = apperror.New(apperror.ErrInvalidState, "no clock-in found for today")
	ErrAlreadyClockedOut   = apperror.New(apperror.ErrInvalidState, "already clocked out today")
	ErrBreakNotStarted     = apperror.New(apperror.ErrInvalidState, "break has not been started")
	ErrBreakAlreadyTaken   = apperror.New(apperror.ErrInvalidState, "break already recorded today")
	ErrAlreadyApproved     = apperror.New(apperror.ErrInvalidState, "attendance record is already approved")
	ErrTimeOutBeforeTimeIn = apperror.New(apperror.ErrInvalidState, "time out must not be before time in")
)
