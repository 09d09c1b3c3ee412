package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

// QuotaService reads and consumes yearly leave balances.
type QuotaService struct {
	balances leave.LeaveBalanceRepository
}

func NewQuotaService(balances leave.LeaveBalanceRepository) *QuotaService {
	return &QuotaService{balances: balances}
}

func (q *QuotaService) Balance(ctx context.Context, employeeID int64, year int) (leave.LeaveBalance, error) {
	b, err := q.balances.GetOrCreate(ctx, employeeID, year)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to load leave balance: %w", err)
	}
	return b, nil
}

// EnsureAvailable fails with ErrInsufficientBalance when fewer than days remain.
// Unpaid leave always passes.
func (q *QuotaService) EnsureAvailable(ctx context.Context, employeeID int64, year int, leaveType leave.LeaveType, days int) error {
	if !leaveType.IsPaid() {
		return nil
	}
	b, err := q.Balance(ctx, employeeID, year)
	if err != nil {
		return err
	}
	if remaining := b.Remaining(leaveType); remaining < days {
		return fmt.Errorf("%w: %d %s day(s) requested, %d remaining", leave.ErrInsufficientBalance, days, leaveType, remaining)
	}
	return nil
}

// Consume adds days to the used counter. Unpaid leave is not tracked.
func (q *QuotaService) Consume(ctx context.Context, employeeID int64, year int, leaveType leave.LeaveType, days int) error {
	if !leaveType.IsPaid() {
		return nil
	}
	if _, err := q.balances.GetOrCreate(ctx, employeeID, year); err != nil {
		return fmt.Errorf("failed to load leave balance: %w", err)
	}
	if err := q.balances.IncrementUsed(ctx, employeeID, year, leaveType, days); err != nil {
		return fmt.Errorf("failed to consume leave balance: %w", err)
	}
	return nil
}
