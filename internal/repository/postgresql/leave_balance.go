package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// GetOrCreate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetOrCreate(ctx context.Context, employeeID int64, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	insert := `
		INSERT INTO leave_balances (employee_id, year, annual_balance, sick_balance, emergency_balance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, year) DO NOTHING
	`
	_, err := q.Exec(ctx, insert, employeeID, year,
		leave.DefaultAnnualBalance, leave.DefaultSickBalance, leave.DefaultEmergencyBalance,
	)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	query := `
		SELECT employee_id, year, annual_balance, sick_balance, emergency_balance,
			used_annual, used_sick, used_emergency, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
	`
	var b leave.LeaveBalance
	err = q.QueryRow(ctx, query, employeeID, year).Scan(
		&b.EmployeeID, &b.Year, &b.AnnualBalance, &b.SickBalance, &b.EmergencyBalance,
		&b.UsedAnnual, &b.UsedSick, &b.UsedEmergency, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// IncrementUsed implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) IncrementUsed(ctx context.Context, employeeID int64, year int, leaveType leave.LeaveType, days int) error {
	var column string
	switch leaveType {
	case leave.LeaveTypeAnnual:
		column = "used_annual"
	case leave.LeaveTypeSick:
		column = "used_sick"
	case leave.LeaveTypeEmergency:
		column = "used_emergency"
	default:
		return fmt.Errorf("leave type %q has no balance", leaveType)
	}

	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO leave_balances (employee_id, year, annual_balance, sick_balance, emergency_balance, %[1]s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, year)
		DO UPDATE SET %[1]s = leave_balances.%[1]s + EXCLUDED.%[1]s, updated_at = NOW()
	`, column)
	_, err := q.Exec(ctx, query, employeeID, year,
		leave.DefaultAnnualBalance, leave.DefaultSickBalance, leave.DefaultEmergencyBalance, days,
	)
	if err != nil {
		return fmt.Errorf("failed to increment used leave: %w", err)
	}
	return nil
}
