package leave

import (
	"time"
)

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeEmergency LeaveType = "emergency"
	// LeaveTypeUnpaid never touches the balance.
	LeaveTypeUnpaid LeaveType = "unpaid"
)

func (t LeaveType) IsPaid() bool {
	return t != LeaveTypeUnpaid
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID         int64
	EmployeeID int64
	LeaveType  LeaveType
	StartDate  time.Time
	EndDate    time.Time
	TotalDays  int
	// BalanceYear is the balance row checked at creation; approval consumes the same row.
	BalanceYear int
	Reason      string

	Status          LeaveRequestStatus
	ReviewedBy      *int64
	ReviewedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	DefaultAnnualBalance    = 21
	DefaultSickBalance      = 10
	DefaultEmergencyBalance = 5
)

// LeaveBalance is one employee's allotment for one calendar year.
type LeaveBalance struct {
	EmployeeID       int64
	Year             int
	AnnualBalance    int
	SickBalance      int
	EmergencyBalance int
	UsedAnnual       int
	UsedSick         int
	UsedEmergency    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewDefaultBalance(employeeID int64, year int) LeaveBalance {
	return LeaveBalance{
		EmployeeID:       employeeID,
		Year:             year,
		AnnualBalance:    DefaultAnnualBalance,
		SickBalance:      DefaultSickBalance,
		EmergencyBalance: DefaultEmergencyBalance,
	}
}

// Total returns the allotment for a paid leave type; unpaid has none.
func (b LeaveBalance) Total(t LeaveType) int {
	switch t {
	case LeaveTypeAnnual:
		return b.AnnualBalance
	case LeaveTypeSick:
		return b.SickBalance
	case LeaveTypeEmergency:
		return b.EmergencyBalance
	default:
		return 0
	}
}

func (b LeaveBalance) Used(t LeaveType) int {
	switch t {
	case LeaveTypeAnnual:
		return b.UsedAnnual
	case LeaveTypeSick:
		return b.UsedSick
	case LeaveTypeEmergency:
		return b.UsedEmergency
	default:
		return 0
	}
}

func (b LeaveBalance) Remaining(t LeaveType) int {
	return b.Total(t) - b.Used(t)
}

const secondsPerDay = 24 * 60 * 60

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1
}
