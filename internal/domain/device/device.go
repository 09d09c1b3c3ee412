package device

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"
)

var (
	ErrDeviceUnauthorized = apperr.Forbidden("this device is not registered for the employee")
	ErrDeviceIDRequired   = apperr.Validation("device id must not be blank")
)

// CheckResult describes how a presented device relates to the employee's binding.
type CheckResult struct {
	IsRegistered       bool    `json:"is_registered"`
	IsMatch            bool    `json:"is_match"`
	RegisteredDeviceID *string `json:"registered_device_id,omitempty"`
}

// Guard enforces the single-device binding per employee.
type Guard interface {
	CheckDevice(ctx context.Context, employeeID int64, deviceID string) (CheckResult, error)
	// Bind registers deviceID when the employee has no device yet. A concurrent winner
	// with a different device is reported as a mismatch.
	Bind(ctx context.Context, employeeID int64, deviceID string) (CheckResult, error)
	ResetDevice(ctx context.Context, employeeID int64) error
	// Verify checks deviceID against emp's current binding without writing. A mismatch
	// returns ErrDeviceUnauthorized; an unbound employee passes.
	Verify(ctx context.Context, emp employee.Employee, deviceID string) (CheckResult, error)
	// Confirm binds deviceID on first use. Callers run it inside the write transaction of
	// an attempt that has passed every other check, so rejected attempts never bind.
	Confirm(ctx context.Context, emp employee.Employee, deviceID string) (CheckResult, error)
}

// Evaluate compares a presented device with the current binding.
func Evaluate(registered *string, deviceID string) CheckResult {
	if registered == nil {
		return CheckResult{}
	}
	id := *registered
	return CheckResult{
		IsRegistered:       true,
		IsMatch:            id == deviceID,
		RegisteredDeviceID: &id,
	}
}
