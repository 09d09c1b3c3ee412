package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	// StatusAbsent is only ever inferred or set by external tooling; check-in never writes it.
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
)

type Method string

const (
	MethodCode        Method = "code"
	MethodFingerprint Method = "fingerprint"
	MethodFace        Method = "face"
	MethodSession     Method = "session"
	MethodManual      Method = "manual"
)

// Attendance is the single record of one employee on one calendar date.
type Attendance struct {
	ID                int64
	EmployeeID        int64
	Date              time.Time
	CheckInTime       *time.Time
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckInMethod     *Method
	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutMethod    *Method
	Status            *Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Punch is one check-in or check-out stamp.
type Punch struct {
	Time      time.Time
	Latitude  float64
	Longitude float64
	Method    Method
}
