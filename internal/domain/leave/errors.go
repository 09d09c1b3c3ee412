package leave

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

var (
	ErrLeaveRequestNotFound    = apperr.NotFound("leave request not found")
	ErrAlreadyDecided          = apperr.Conflict("leave request has already been decided")
	ErrInsufficientBalance     = apperr.Validation("insufficient leave balance")
	ErrRejectionReasonRequired = apperr.Validation("a rejection reason is required")
	ErrInvalidDateRange        = apperr.Validation("end_date must not be before start_date")
	ErrInvalidLeaveType        = apperr.Validation("leave type must be one of annual, sick, emergency, unpaid")
	ErrSelfReview              = apperr.Forbidden("you cannot decide your own leave request")
	ErrOutsideBranch           = apperr.Forbidden("leave request belongs to an employee of another branch")
)
