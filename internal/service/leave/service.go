package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	txr       database.Transactor
	employees employee.EmployeeRepository
	requests  leave.LeaveRequestRepository
	quota     *QuotaService
	notifier  notification.Service
	clock     clock.Clock
}

func NewLeaveService(
	txr database.Transactor,
	employeeRepo employee.EmployeeRepository,
	requestRepo leave.LeaveRequestRepository,
	quotaService *QuotaService,
	notifier notification.Service,
	clk clock.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		txr:       txr,
		employees: employeeRepo,
		requests:  requestRepo,
		quota:     quotaService,
		notifier:  notifier,
		clock:     clk,
	}
}

// GetOrCreateBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) GetOrCreateBalance(ctx context.Context, employeeID int64) (leave.LeaveBalance, error) {
	return l.quota.Balance(ctx, employeeID, l.clock.Now().Year())
}

// RequestLeave implements leave.LeaveService.
func (l *LeaveServiceImpl) RequestLeave(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := employee.ResolveActive(ctx, l.employees, req.Ref())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, end := req.Dates()
	days := leave.InclusiveDays(start, end)
	year := l.clock.Now().Year()

	if err := l.quota.EnsureAvailable(ctx, emp.ID, year, req.LeaveType, days); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.requests.Create(ctx, leave.LeaveRequest{
		EmployeeID:  emp.ID,
		LeaveType:   req.LeaveType,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   days,
		BalanceYear: year,
		Reason:      req.Reason,
		Status:      leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("leave requested", "employee_id", emp.ID, "request_id", created.ID, "type", created.LeaveType, "days", days)
	l.notifier.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
		EmployeeID: emp.ID,
		BranchID:   emp.BranchID,
		Type:       notification.TypeLeaveRequested,
		Title:      "New leave request",
		Message: fmt.Sprintf("%s (%s) requested %d day(s) of %s leave from %s",
			emp.FullName, emp.EmployeeCode, days, created.LeaveType, req.StartDate),
		Data: map[string]any{
			"request_id": created.ID,
			"leave_type": created.LeaveType,
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
			"total_days": days,
		},
	})

	return leave.ToResponse(created), nil
}

// Decide implements leave.LeaveService. Approval and balance consumption commit together.
func (l *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	reviewer, err := employee.ResolveActive(ctx, l.employees, employee.Ref{ID: req.ReviewerID})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !employee.HasPermission(reviewer.Role, employee.PermissionLeaveApprove) {
		return leave.LeaveRequestResponse{}, employee.ErrInsufficientRole
	}

	status := leave.LeaveRequestStatusApproved
	var rejectionReason *string
	if req.Outcome == leave.OutcomeReject {
		status = leave.LeaveRequestStatusRejected
		rejectionReason = req.RejectionReason
	}

	var (
		decided   leave.LeaveRequest
		requester employee.Employee
	)
	err = l.txr.WithinTx(ctx, func(ctx context.Context) error {
		current, err := l.requests.GetByID(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if current.EmployeeID == reviewer.ID {
			return leave.ErrSelfReview
		}

		requester, err = l.employees.GetByID(ctx, current.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to load requester: %w", err)
		}
		if reviewer.Role == employee.RoleBranchManager && !sameBranch(reviewer.BranchID, requester.BranchID) {
			return leave.ErrOutsideBranch
		}

		if current.Status != leave.LeaveRequestStatusPending {
			return leave.ErrAlreadyDecided
		}

		ok, err := l.requests.DecideIfPending(ctx, current.ID, status, reviewer.ID, l.clock.Now(), rejectionReason)
		if err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		if !ok {
			return leave.ErrAlreadyDecided
		}

		if status == leave.LeaveRequestStatusApproved {
			if err := l.quota.Consume(ctx, current.EmployeeID, current.BalanceYear, current.LeaveType, current.TotalDays); err != nil {
				return err
			}
		}

		decided, err = l.requests.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave decided", "request_id", decided.ID, "status", decided.Status, "reviewer_id", reviewer.ID)
	l.notifier.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
		EmployeeID: requester.ID,
		BranchID:   requester.BranchID,
		Type:       notification.TypeLeaveDecided,
		Title:      "Leave request " + string(decided.Status),
		Message: fmt.Sprintf("%s's %s leave request was %s by %s",
			requester.FullName, decided.LeaveType, decided.Status, reviewer.FullName),
		Data: map[string]any{
			"request_id":  decided.ID,
			"status":      decided.Status,
			"reviewer_id": reviewer.ID,
		},
	})

	return leave.ToResponse(decided), nil
}

// GetBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalance(ctx context.Context, ref employee.Ref) (leave.BalanceResponse, error) {
	emp, err := employee.Resolve(ctx, l.employees, ref)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	b, err := l.GetOrCreateBalance(ctx, emp.ID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.ToBalanceResponse(b), nil
}

// ListMine implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMine(ctx context.Context, ref employee.Ref, status *leave.LeaveRequestStatus) ([]leave.LeaveRequestResponse, error) {
	emp, err := employee.Resolve(ctx, l.employees, ref)
	if err != nil {
		return nil, err
	}

	requests, err := l.requests.ListByEmployee(ctx, emp.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

// ListPending implements leave.LeaveService.
func (l *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.requests.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return toResponses(requests), nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	out := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, leave.ToResponse(r))
	}
	return out
}

func sameBranch(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
