package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 100
	MaxExportDays       = 366
)

// ========================================
// CHECK-IN / CHECK-OUT
// ========================================

// PunchRequest carries a check-in or check-out attempt. EmployeeID is filled from
// the session; kiosks send employee_code instead.
type PunchRequest struct {
	EmployeeCode string   `json:"employee_code"`
	EmployeeID   int64    `json:"-"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	Method       Method   `json:"method" validate:"required,oneof=code fingerprint face session"`
	DeviceID     *string  `json:"device_id" validate:"omitnil,max=255"`
}

func (r *PunchRequest) Ref() employee.Ref {
	return employee.Ref{ID: r.EmployeeID, Code: strings.TrimSpace(r.EmployeeCode)}
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Ref().IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	}
	if r.DeviceID != nil && validator.IsEmpty(*r.DeviceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_id",
			Message: "device_id must not be blank when provided",
		})
	}

	return validator.Merge(validator.Struct(r), asError(errs))
}

func (r *PunchRequest) Point() (lat, lon float64) {
	return *r.Latitude, *r.Longitude
}

type CheckInResponse struct {
	RecordID    int64   `json:"record_id"`
	Status      Status  `json:"status"`
	CheckInTime string  `json:"check_in_time"`
	ZoneName    *string `json:"zone_name,omitempty"`
}

type CheckOutResponse struct {
	RecordID      int64  `json:"record_id"`
	CheckOutTime  string `json:"check_out_time"`
	EarlyCheckout bool   `json:"early_checkout"`
}

type AttendanceResponse struct {
	ID                int64    `json:"id"`
	EmployeeID        int64    `json:"employee_id"`
	Date              string   `json:"date"`
	CheckInTime       *string  `json:"check_in_time,omitempty"`
	CheckInLatitude   *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64 `json:"check_in_longitude,omitempty"`
	CheckInMethod     *Method  `json:"check_in_method,omitempty"`
	CheckOutTime      *string  `json:"check_out_time,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	CheckOutMethod    *Method  `json:"check_out_method,omitempty"`
	WorkingMinutes    *int     `json:"working_minutes,omitempty"`
	Status            *Status  `json:"status,omitempty"`
}

type HistoryRequest struct {
	Ref   employee.Ref
	Limit int
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Ref.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	if r.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if r.Limit == 0 {
		r.Limit = DefaultHistoryLimit
	}
	if r.Limit > MaxHistoryLimit {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	return asError(errs)
}

// ========================================
// LOCATION
// ========================================

type LocationUpdateRequest struct {
	EmployeeCode string   `json:"employee_code"`
	EmployeeID   int64    `json:"-"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	Accuracy     *float64 `json:"accuracy" validate:"omitnil,gte=0"`
}

func (r *LocationUpdateRequest) Ref() employee.Ref {
	return employee.Ref{ID: r.EmployeeID, Code: strings.TrimSpace(r.EmployeeCode)}
}

func (r *LocationUpdateRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Ref().IsZero() {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	return validator.Merge(validator.Struct(r), asError(errs))
}

type LocationAck struct {
	InsideZone bool    `json:"inside_zone"`
	ZoneName   *string `json:"zone_name,omitempty"`
	CheckedIn  bool    `json:"checked_in"`
	// ZoneExitAlert is true when this ping raised a left-zone notification.
	ZoneExitAlert bool `json:"zone_exit_alert"`
}

// ========================================
// REPORTING
// ========================================

type AbsenteeResponse struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	BranchID     *int64 `json:"branch_id,omitempty"`
}

type DateRangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Parse validates the range and returns both dates as midnight UTC.
func (r DateRangeRequest) Parse() (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if end.Sub(start) > (MaxExportDays-1)*24*time.Hour {
		return time.Time{}, time.Time{}, validator.ValidationErrors{{Field: "end_date", Message: "range must not exceed 366 days"}}
	}
	return start, end, nil
}

// ========================================
// CORRECTIONS
// ========================================

type ModifyAttendanceRequest struct {
	AttendanceID int64      `json:"-"`
	ModifiedBy   int64      `json:"-"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Reason       string     `json:"reason"`
}

func (r *ModifyAttendanceRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return ErrReasonRequired
	}
	if r.CheckInTime == nil && r.CheckOutTime == nil {
		return ErrNothingToModify
	}
	return nil
}

type AddManualAttendanceRequest struct {
	EmployeeID   int64      `json:"employee_id"`
	EmployeeCode string     `json:"employee_code"`
	ModifiedBy   int64      `json:"-"`
	CheckInTime  *time.Time `json:"check_in_time" validate:"required"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Reason       string     `json:"reason"`
}

func (r *AddManualAttendanceRequest) Ref() employee.Ref {
	return employee.Ref{ID: r.EmployeeID, Code: strings.TrimSpace(r.EmployeeCode)}
}

func (r *AddManualAttendanceRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return ErrReasonRequired
	}
	var errs validator.ValidationErrors
	if r.Ref().IsZero() {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id or employee_code is required"})
	}
	if err := validator.Merge(validator.Struct(r), asError(errs)); err != nil {
		return err
	}
	if r.CheckOutTime != nil && r.CheckOutTime.Before(*r.CheckInTime) {
		return ErrCheckOutBeforeCheckIn
	}
	return nil
}

type ResetCheckoutRequest struct {
	AttendanceID int64  `json:"-"`
	ModifiedBy   int64  `json:"-"`
	Reason       string `json:"reason"`
}

func (r *ResetCheckoutRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return ErrReasonRequired
	}
	return nil
}

type ModificationResponse struct {
	ID                   int64            `json:"id"`
	AttendanceID         int64            `json:"attendance_id"`
	ModifiedBy           int64            `json:"modified_by"`
	Type                 ModificationType `json:"type"`
	PreviousCheckInTime  *time.Time       `json:"previous_check_in_time,omitempty"`
	PreviousCheckOutTime *time.Time       `json:"previous_check_out_time,omitempty"`
	NewCheckInTime       *time.Time       `json:"new_check_in_time,omitempty"`
	NewCheckOutTime      *time.Time       `json:"new_check_out_time,omitempty"`
	Reason               string           `json:"reason"`
	CreatedAt            time.Time        `json:"created_at"`
}

func asError(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
