package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by kind
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		NotFound(w, err.Error())
	case apperr.KindConflict:
		Conflict(w, err.Error())
	case apperr.KindForbidden:
		Forbidden(w, err.Error())
	case apperr.KindValidation:
		BadRequest(w, err.Error(), nil)
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
