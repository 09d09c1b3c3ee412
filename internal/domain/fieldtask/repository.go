package fieldtask

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type FieldTaskRepository interface {
	// GetActive returns nil, nil when the employee has no active task.
	GetActive(ctx context.Context, employeeID int64) (*FieldTask, error)
	// Create inserts an active task; a second active task yields ErrActiveTaskExists.
	Create(ctx context.Context, task FieldTask) (FieldTask, error)
	// Complete closes the task if still active and reports whether it did.
	Complete(ctx context.Context, id int64, end attendance.Punch) (bool, error)
	Cancel(ctx context.Context, id int64, at time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (FieldTask, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]FieldTask, error)
}
