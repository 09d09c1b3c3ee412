package workzone

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateWorkZoneRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	RadiusMeters float64  `json:"radius_meters" validate:"gt=0"`
	IsActive     *bool    `json:"is_active"`
}

func (r *CreateWorkZoneRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be blank"})
	}
	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

type UpdateWorkZoneRequest struct {
	ID           int64    `json:"-"`
	Name         *string  `json:"name" validate:"omitnil,max=100"`
	Latitude     *float64 `json:"latitude" validate:"omitnil,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitnil,longitude"`
	RadiusMeters *float64 `json:"radius_meters" validate:"omitnil,gt=0"`
	IsActive     *bool    `json:"is_active"`
}

func (r *UpdateWorkZoneRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be blank"})
	}
	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

func nilIfEmpty(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type WorkZoneResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters float64   `json:"radius_meters"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToResponse(z WorkZone) WorkZoneResponse {
	return WorkZoneResponse{
		ID:           z.ID,
		Name:         z.Name,
		Latitude:     z.Latitude,
		Longitude:    z.Longitude,
		RadiusMeters: z.RadiusMeters,
		IsActive:     z.IsActive,
		CreatedAt:    z.CreatedAt,
		UpdatedAt:    z.UpdatedAt,
	}
}
