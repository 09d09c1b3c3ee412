package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	GetByID(ctx context.Context, id int64) (Attendance, error)
	// GetByEmployeeAndDate returns nil, nil when the employee has no row for date.
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Attendance, error)
	// GetByEmployeeAndDateForUpdate is GetByEmployeeAndDate with a row lock; call it inside a transaction.
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID int64, date time.Time) (*Attendance, error)
	// Create inserts a record. A duplicate (employee, date) yields ErrAlreadyCheckedIn.
	Create(ctx context.Context, record Attendance) (Attendance, error)
	// RecordCheckIn fills check-in on a row that has none and reports whether a row changed.
	RecordCheckIn(ctx context.Context, id int64, punch Punch, status Status) (bool, error)
	// RecordCheckOut fills check-out on a row that has none and reports whether a row changed.
	RecordCheckOut(ctx context.Context, id int64, punch Punch) (bool, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]Attendance, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Attendance, error)
	// ListCheckedInEmployeeIDs returns employees with a check-in on date.
	ListCheckedInEmployeeIDs(ctx context.Context, date time.Time) ([]int64, error)
	// UpdateTimes overwrites check-in, check-out and status as given by an administrator.
	UpdateTimes(ctx context.Context, id int64, checkIn, checkOut *time.Time, status *Status) error
	ClearCheckOut(ctx context.Context, id int64) error
}

type ModificationRepository interface {
	Create(ctx context.Context, mod AttendanceModification) (AttendanceModification, error)
	ListByAttendanceID(ctx context.Context, attendanceID int64) ([]AttendanceModification, error)
}

type LocationRepository interface {
	Create(ctx context.Context, ping LocationPing) (LocationPing, error)
	// LatestSince returns the newest ping at or after since, or nil.
	LatestSince(ctx context.Context, employeeID int64, since time.Time) (*LocationPing, error)
}

type WorkSettingsRepository interface {
	// Get returns nil, nil when no settings row exists.
	Get(ctx context.Context) (*WorkSettings, error)
}
