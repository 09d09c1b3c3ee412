package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, user_id, employee_code, full_name, role, status, branch_id,
	registered_device_id, device_registered_at, fingerprint_enabled, face_data_id, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.FullName, &emp.Role, &emp.Status, &emp.BranchID,
		&emp.RegisteredDeviceID, &emp.DeviceRegisteredAt, &emp.FingerprintEnabled, &emp.FaceDataID,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	return e.getOne(ctx, "id = $1", id)
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return e.getOne(ctx, "employee_code = $1", employeeCode)
}

// GetByUserID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return e.getOne(ctx, "user_id = $1", userID)
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s`, employeeColumns, where)
	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return e.list(ctx, "WHERE status = 'active'")
}

// ListAll implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListAll(ctx context.Context) ([]employee.Employee, error) {
	return e.list(ctx, "")
}

func (e *employeeRepositoryImpl) list(ctx context.Context, where string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`SELECT %s FROM employees %s ORDER BY id`, employeeColumns, where)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// BindDevice implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) BindDevice(ctx context.Context, id int64, deviceID string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET registered_device_id = $1, device_registered_at = $2, updated_at = NOW()
		WHERE id = $3 AND registered_device_id IS NULL
	`
	tag, err := q.Exec(ctx, query, deviceID, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to bind device: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClearDevice implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ClearDevice(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET registered_device_id = NULL, device_registered_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
