package employee

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

var (
	ErrEmployeeNotFound    = apperr.NotFound("employee not found")
	ErrEmployeeInactive    = apperr.Forbidden("employee is not active")
	ErrEmployeeRefRequired = apperr.Validation("employee code or session identity is required")
	ErrInsufficientRole    = apperr.Forbidden("insufficient role for this operation")
)
