package workzone

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

var (
	ErrWorkZoneNotFound = apperr.NotFound("work zone not found")
	ErrWorkZoneExists   = apperr.Conflict("a work zone with this name already exists")
)
