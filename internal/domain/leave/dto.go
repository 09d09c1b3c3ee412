package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeCode string    `json:"-"`
	EmployeeID   int64     `json:"-"`
	LeaveType    LeaveType `json:"leave_type" validate:"required,oneof=annual sick emergency unpaid"`
	StartDate    string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason       string    `json:"reason" validate:"required,max=1000"`
}

func (r *CreateLeaveRequest) Ref() employee.Ref {
	return employee.Ref{ID: r.EmployeeID, Code: strings.TrimSpace(r.EmployeeCode)}
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Ref().IsZero() {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	if validator.IsEmpty(r.Reason) && r.Reason != "" {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not be blank"})
	}

	var extra error
	if len(errs) > 0 {
		extra = errs
	}
	if err := validator.Merge(validator.Struct(r), extra); err != nil {
		return err
	}

	start, end := r.Dates()
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}

// Dates returns the parsed range. Call after Validate.
func (r *CreateLeaveRequest) Dates() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", r.StartDate)
	end, _ := time.Parse("2006-01-02", r.EndDate)
	return start, end
}

type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

type DecideLeaveRequest struct {
	RequestID       int64   `json:"-"`
	ReviewerID      int64   `json:"-"`
	Outcome         Outcome `json:"outcome" validate:"required,oneof=approve reject"`
	RejectionReason *string `json:"rejection_reason"`
}

func (r *DecideLeaveRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Outcome == OutcomeReject && (r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason)) {
		return ErrRejectionReasonRequired
	}
	return nil
}

type LeaveRequestResponse struct {
	ID              int64              `json:"id"`
	EmployeeID      int64              `json:"employee_id"`
	LeaveType       LeaveType          `json:"leave_type"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	TotalDays       int                `json:"total_days"`
	Reason          string             `json:"reason"`
	Status          LeaveRequestStatus `json:"status"`
	ReviewedBy      *int64             `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewed_at,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      r.ReviewedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}

type BalanceLine struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type BalanceResponse struct {
	EmployeeID int64       `json:"employee_id"`
	Year       int         `json:"year"`
	Annual     BalanceLine `json:"annual"`
	Sick       BalanceLine `json:"sick"`
	Emergency  BalanceLine `json:"emergency"`
}

func ToBalanceResponse(b LeaveBalance) BalanceResponse {
	line := func(t LeaveType) BalanceLine {
		return BalanceLine{Total: b.Total(t), Used: b.Used(t), Remaining: b.Remaining(t)}
	}
	return BalanceResponse{
		EmployeeID: b.EmployeeID,
		Year:       b.Year,
		Annual:     line(LeaveTypeAnnual),
		Sick:       line(LeaveTypeSick),
		Emergency:  line(LeaveTypeEmergency),
	}
}
