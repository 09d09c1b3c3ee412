package employee

import (
	"context"
	"fmt"
)

// Resolve loads the employee named by ref. Unknown employees yield ErrEmployeeNotFound.
func Resolve(ctx context.Context, repo EmployeeRepository, ref Ref) (Employee, error) {
	if ref.IsZero() {
		return Employee{}, ErrEmployeeRefRequired
	}

	var (
		emp Employee
		err error
	)
	if ref.ID != 0 {
		emp, err = repo.GetByID(ctx, ref.ID)
	} else {
		emp, err = repo.GetByEmployeeCode(ctx, ref.Code)
	}
	if err != nil {
		return Employee{}, fmt.Errorf("failed to resolve employee: %w", err)
	}
	return emp, nil
}

// ResolveActive is Resolve plus a status check.
func ResolveActive(ctx context.Context, repo EmployeeRepository, ref Ref) (Employee, error) {
	emp, err := Resolve(ctx, repo, ref)
	if err != nil {
		return Employee{}, err
	}
	if !emp.IsActive() {
		return Employee{}, ErrEmployeeInactive
	}
	return emp, nil
}
