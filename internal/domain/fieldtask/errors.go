package fieldtask

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

var (
	ErrActiveTaskExists  = apperr.Conflict("an active field task already exists; end it first")
	ErrFieldTaskNotFound = apperr.NotFound("field task not found")
)
