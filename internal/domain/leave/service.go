package leave

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type LeaveService interface {
	GetOrCreateBalance(ctx context.Context, employeeID int64) (LeaveBalance, error)
	RequestLeave(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	GetBalance(ctx context.Context, ref employee.Ref) (BalanceResponse, error)
	ListMine(ctx context.Context, ref employee.Ref, status *LeaveRequestStatus) ([]LeaveRequestResponse, error)
	ListPending(ctx context.Context) ([]LeaveRequestResponse, error)
}
