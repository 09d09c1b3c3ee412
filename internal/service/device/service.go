package device

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type guardImpl struct {
	employees employee.EmployeeRepository
	notifier  notification.Service
	clock     clock.Clock
}

func NewGuard(employees employee.EmployeeRepository, notifier notification.Service, clk clock.Clock) device.Guard {
	return &guardImpl{employees: employees, notifier: notifier, clock: clk}
}

func (g *guardImpl) CheckDevice(ctx context.Context, employeeID int64, deviceID string) (device.CheckResult, error) {
	emp, err := g.employees.GetByID(ctx, employeeID)
	if err != nil {
		return device.CheckResult{}, fmt.Errorf("failed to load employee: %w", err)
	}
	return device.Evaluate(emp.RegisteredDeviceID, deviceID), nil
}

func (g *guardImpl) Bind(ctx context.Context, employeeID int64, deviceID string) (device.CheckResult, error) {
	if validator.IsEmpty(deviceID) {
		return device.CheckResult{}, device.ErrDeviceIDRequired
	}

	bound, err := g.employees.BindDevice(ctx, employeeID, deviceID, g.clock.Now())
	if err != nil {
		return device.CheckResult{}, fmt.Errorf("failed to bind device: %w", err)
	}
	if bound {
		slog.Info("device registered", "employee_id", employeeID, "device_id", deviceID)
		id := deviceID
		return device.CheckResult{IsRegistered: true, IsMatch: true, RegisteredDeviceID: &id}, nil
	}

	// Someone bound first; report against whatever won.
	return g.CheckDevice(ctx, employeeID, deviceID)
}

func (g *guardImpl) ResetDevice(ctx context.Context, employeeID int64) error {
	if _, err := g.employees.GetByID(ctx, employeeID); err != nil {
		return fmt.Errorf("failed to load employee: %w", err)
	}
	if err := g.employees.ClearDevice(ctx, employeeID); err != nil {
		return fmt.Errorf("failed to clear device: %w", err)
	}
	slog.Info("device binding reset", "employee_id", employeeID)
	return nil
}

func (g *guardImpl) Verify(ctx context.Context, emp employee.Employee, deviceID string) (device.CheckResult, error) {
	if validator.IsEmpty(deviceID) {
		return device.CheckResult{}, device.ErrDeviceIDRequired
	}
	res := device.Evaluate(emp.RegisteredDeviceID, deviceID)
	if !res.IsRegistered || res.IsMatch {
		return res, nil
	}
	return res, g.reject(ctx, emp, deviceID, *res.RegisteredDeviceID)
}

func (g *guardImpl) Confirm(ctx context.Context, emp employee.Employee, deviceID string) (device.CheckResult, error) {
	if emp.RegisteredDeviceID != nil {
		return g.Verify(ctx, emp, deviceID)
	}

	res, err := g.Bind(ctx, emp.ID, deviceID)
	if err != nil {
		return device.CheckResult{}, err
	}
	if res.IsMatch {
		return res, nil
	}
	return res, g.reject(ctx, emp, deviceID, *res.RegisteredDeviceID)
}

func (g *guardImpl) reject(ctx context.Context, emp employee.Employee, deviceID, registered string) error {
	slog.Warn("device mismatch blocked",
		"employee_id", emp.ID, "presented_device_id", deviceID, "registered_device_id", registered)
	g.notifier.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
		EmployeeID: emp.ID,
		BranchID:   emp.BranchID,
		Type:       notification.TypeDeviceMismatch,
		Title:      "Unrecognised device",
		Message:    fmt.Sprintf("%s (%s) tried to record attendance from an unregistered device", emp.FullName, emp.EmployeeCode),
		Data: map[string]any{
			"employee_code":        emp.EmployeeCode,
			"presented_device_id":  deviceID,
			"registered_device_id": registered,
		},
	})
	return device.ErrDeviceUnauthorized
}
