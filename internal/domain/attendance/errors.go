package attendance

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

var (
	ErrAttendanceNotFound = apperr.NotFound("attendance record not found")

	ErrAlreadyCheckedIn  = apperr.Conflict("you have already checked in today")
	ErrAlreadyCheckedOut = apperr.Conflict("you have already checked out today")
	ErrNoCheckInToday    = apperr.Conflict("no check-in found for today")
	ErrAttendanceExists  = apperr.Conflict("an attendance record already exists for this date")

	ErrOutsideWorkZone = apperr.Forbidden("you are outside every active work zone")

	ErrCheckOutBeforeCheckIn = apperr.Validation("check-out time must not be before check-in time")
	ErrReasonRequired        = apperr.Validation("a reason is required for attendance corrections")
	ErrNothingToModify       = apperr.Validation("at least one of check_in_time or check_out_time must be provided")
	ErrNotCheckedOut         = apperr.Validation("record has no check-out to reset")
	ErrCheckInRequired       = apperr.Validation("a record needs a check-in time before it can have a check-out time")
	ErrCheckInOffRecordDate  = apperr.Validation("check-in time must fall on the record's date")
	ErrInvalidDateRange      = apperr.Validation("end_date must not be before start_date")
)
