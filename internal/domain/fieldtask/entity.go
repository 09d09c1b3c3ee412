package fieldtask

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// FieldTask is an off-site mission. An employee has at most one active task.
type FieldTask struct {
	ID             int64
	EmployeeID     int64
	Date           time.Time
	StartTime      time.Time
	StartLatitude  float64
	StartLongitude float64
	StartMethod    attendance.Method
	EndTime        *time.Time
	EndLatitude    *float64
	EndLongitude   *float64
	EndMethod      *attendance.Method
	Notes          *string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
