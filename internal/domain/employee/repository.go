package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListAll(ctx context.Context) ([]Employee, error)

	// BindDevice stores deviceID only while no device is registered and reports whether it did.
	BindDevice(ctx context.Context, id int64, deviceID string, at time.Time) (bool, error)
	ClearDevice(ctx context.Context, id int64) error
}
