package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	// DecideIfPending moves a pending request to status and reports false when it was no longer pending.
	DecideIfPending(ctx context.Context, id int64, status LeaveRequestStatus, reviewerID int64, at time.Time, rejectionReason *string) (bool, error)
	ListByEmployee(ctx context.Context, employeeID int64, status *LeaveRequestStatus) ([]LeaveRequest, error)
	ListPending(ctx context.Context) ([]LeaveRequest, error)
}

type LeaveBalanceRepository interface {
	// GetOrCreate returns the (employee, year) row, inserting defaults when absent.
	GetOrCreate(ctx context.Context, employeeID int64, year int) (LeaveBalance, error)
	// IncrementUsed adds days to the used counter of leaveType in a single atomic write.
	IncrementUsed(ctx context.Context, employeeID int64, year int, leaveType LeaveType, days int) error
}
