package notification

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

// Notification domain errors
var (
	ErrNotificationNotFound = apperr.NotFound("notification not found")
	ErrQueueFull            = apperr.New(apperr.KindInternal, "notification queue is full")
	ErrServiceStopped       = apperr.New(apperr.KindInternal, "notification service is stopped")
	ErrBranchRequired       = apperr.Validation("branch audience requires a branch id")
)
