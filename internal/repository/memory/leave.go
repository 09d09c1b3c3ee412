package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

type leaveRequestRepositoryImpl struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{store: store}
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	now := r.store.clock.Now()
	req.ID = r.store.nextID()
	req.CreatedAt, req.UpdatedAt = now, now
	r.store.st.requests[req.ID] = req
	return req, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	req, ok := r.store.st.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *leaveRequestRepositoryImpl) DecideIfPending(ctx context.Context, id int64, status leave.LeaveRequestStatus, reviewerID int64, at time.Time, rejectionReason *string) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	req, ok := r.store.st.requests[id]
	if !ok || req.Status != leave.LeaveRequestStatusPending {
		return false, nil
	}
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &at
	req.RejectionReason = rejectionReason
	req.UpdatedAt = at
	r.store.st.requests[id] = req
	return true, nil
}

func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID int64, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	return r.list(ctx, func(req leave.LeaveRequest) bool {
		return req.EmployeeID == employeeID && (status == nil || req.Status == *status)
	})
}

func (r *leaveRequestRepositoryImpl) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(ctx, func(req leave.LeaveRequest) bool { return req.Status == leave.LeaveRequestStatusPending })
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, keep func(leave.LeaveRequest) bool) ([]leave.LeaveRequest, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var out []leave.LeaveRequest
	for _, req := range r.store.st.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	slices.SortFunc(out, func(a, b leave.LeaveRequest) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

type leaveBalanceRepositoryImpl struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{store: store}
}

func (r *leaveBalanceRepositoryImpl) GetOrCreate(ctx context.Context, employeeID int64, year int) (leave.LeaveBalance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	key := balanceKey{employeeID: employeeID, year: year}
	if b, ok := r.store.st.balances[key]; ok {
		return b, nil
	}
	now := r.store.clock.Now()
	b := leave.NewDefaultBalance(employeeID, year)
	b.CreatedAt, b.UpdatedAt = now, now
	r.store.st.balances[key] = b
	return b, nil
}

func (r *leaveBalanceRepositoryImpl) IncrementUsed(ctx context.Context, employeeID int64, year int, leaveType leave.LeaveType, days int) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	key := balanceKey{employeeID: employeeID, year: year}
	b, ok := r.store.st.balances[key]
	if !ok {
		b = leave.NewDefaultBalance(employeeID, year)
		b.CreatedAt = r.store.clock.Now()
	}
	switch leaveType {
	case leave.LeaveTypeAnnual:
		b.UsedAnnual += days
	case leave.LeaveTypeSick:
		b.UsedSick += days
	case leave.LeaveTypeEmergency:
		b.UsedEmergency += days
	default:
		return fmt.Errorf("leave type %q has no balance", leaveType)
	}
	b.UpdatedAt = r.store.clock.Now()
	r.store.st.balances[key] = b
	return nil
}
