package fieldtask

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ToggleRequest starts a task, or ends the active one when IsReturn is set.
type ToggleRequest struct {
	EmployeeCode string            `json:"employee_code"`
	EmployeeID   int64             `json:"-"`
	IsReturn     bool              `json:"is_return"`
	Latitude     *float64          `json:"latitude" validate:"required,latitude"`
	Longitude    *float64          `json:"longitude" validate:"required,longitude"`
	Method       attendance.Method `json:"method" validate:"required,oneof=code fingerprint face session"`
	DeviceID     *string           `json:"device_id" validate:"omitnil,min=1,max=255"`
	Notes        *string           `json:"notes" validate:"omitnil,max=1000"`
}

func (r *ToggleRequest) Ref() employee.Ref {
	return employee.Ref{ID: r.EmployeeID, Code: strings.TrimSpace(r.EmployeeCode)}
}

func (r *ToggleRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Ref().IsZero() {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	if len(errs) == 0 {
		return validator.Struct(r)
	}
	return validator.Merge(validator.Struct(r), errs)
}

// ToggleResponse carries ID 0 when an end or cancel found no active task.
type ToggleResponse struct {
	ID     int64              `json:"id"`
	Status Status             `json:"status,omitempty"`
	Task   *FieldTaskResponse `json:"task,omitempty"`
}

type FieldTaskResponse struct {
	ID             int64              `json:"id"`
	EmployeeID     int64              `json:"employee_id"`
	Date           string             `json:"date"`
	StartTime      time.Time          `json:"start_time"`
	StartLatitude  float64            `json:"start_latitude"`
	StartLongitude float64            `json:"start_longitude"`
	StartMethod    attendance.Method  `json:"start_method"`
	EndTime        *time.Time         `json:"end_time,omitempty"`
	EndLatitude    *float64           `json:"end_latitude,omitempty"`
	EndLongitude   *float64           `json:"end_longitude,omitempty"`
	EndMethod      *attendance.Method `json:"end_method,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
	Status         Status             `json:"status"`
}

func ToResponse(t FieldTask) FieldTaskResponse {
	return FieldTaskResponse{
		ID:             t.ID,
		EmployeeID:     t.EmployeeID,
		Date:           t.Date.Format("2006-01-02"),
		StartTime:      t.StartTime,
		StartLatitude:  t.StartLatitude,
		StartLongitude: t.StartLongitude,
		StartMethod:    t.StartMethod,
		EndTime:        t.EndTime,
		EndLatitude:    t.EndLatitude,
		EndLongitude:   t.EndLongitude,
		EndMethod:      t.EndMethod,
		Notes:          t.Notes,
		Status:         t.Status,
	}
}
