package fieldtask

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/fieldtask"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type FieldTaskServiceImpl struct {
	txr       database.Transactor
	employees employee.EmployeeRepository
	tasks     fieldtask.FieldTaskRepository
	guard     device.Guard
	clock     clock.Clock
}

func NewFieldTaskService(
	txr database.Transactor,
	employeeRepo employee.EmployeeRepository,
	taskRepo fieldtask.FieldTaskRepository,
	guard device.Guard,
	clk clock.Clock,
) fieldtask.FieldTaskService {
	return &FieldTaskServiceImpl{
		txr:       txr,
		employees: employeeRepo,
		tasks:     taskRepo,
		guard:     guard,
		clock:     clk,
	}
}

// Toggle implements fieldtask.FieldTaskService.
func (s *FieldTaskServiceImpl) Toggle(ctx context.Context, req fieldtask.ToggleRequest) (fieldtask.ToggleResponse, error) {
	if err := req.Validate(); err != nil {
		return fieldtask.ToggleResponse{}, err
	}

	emp, err := employee.ResolveActive(ctx, s.employees, req.Ref())
	if err != nil {
		return fieldtask.ToggleResponse{}, err
	}

	if req.DeviceID != nil {
		if _, err := s.guard.Verify(ctx, emp, *req.DeviceID); err != nil {
			return fieldtask.ToggleResponse{}, err
		}
	}

	now := s.clock.Now()
	punch := attendance.Punch{Time: now, Latitude: *req.Latitude, Longitude: *req.Longitude, Method: req.Method}

	if req.IsReturn {
		return s.finish(ctx, emp.ID, func(ctx context.Context, id int64) (bool, error) {
			if req.DeviceID != nil {
				if _, err := s.guard.Confirm(ctx, emp, *req.DeviceID); err != nil {
					return false, err
				}
			}
			return s.tasks.Complete(ctx, id, punch)
		})
	}

	var task fieldtask.FieldTask
	err = s.txr.WithinTx(ctx, func(ctx context.Context) error {
		active, err := s.tasks.GetActive(ctx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to load active field task: %w", err)
		}
		if active != nil {
			return fieldtask.ErrActiveTaskExists
		}
		if req.DeviceID != nil {
			if _, err := s.guard.Confirm(ctx, emp, *req.DeviceID); err != nil {
				return err
			}
		}

		task, err = s.tasks.Create(ctx, fieldtask.FieldTask{
			EmployeeID:     emp.ID,
			Date:           clock.DateOf(now),
			StartTime:      now,
			StartLatitude:  punch.Latitude,
			StartLongitude: punch.Longitude,
			StartMethod:    punch.Method,
			Notes:          req.Notes,
		})
		return err
	})
	if err != nil {
		return fieldtask.ToggleResponse{}, err
	}

	slog.Info("field task started", "employee_id", emp.ID, "task_id", task.ID)
	resp := fieldtask.ToResponse(task)
	return fieldtask.ToggleResponse{ID: task.ID, Status: task.Status, Task: &resp}, nil
}

// Cancel implements fieldtask.FieldTaskService.
func (s *FieldTaskServiceImpl) Cancel(ctx context.Context, ref employee.Ref) (fieldtask.ToggleResponse, error) {
	emp, err := employee.ResolveActive(ctx, s.employees, ref)
	if err != nil {
		return fieldtask.ToggleResponse{}, err
	}

	now := s.clock.Now()
	return s.finish(ctx, emp.ID, func(ctx context.Context, id int64) (bool, error) {
		return s.tasks.Cancel(ctx, id, now)
	})
}

// finish closes the employee's active task with end. No active task, or losing the
// race to another request, yields ID 0.
func (s *FieldTaskServiceImpl) finish(ctx context.Context, employeeID int64, end func(context.Context, int64) (bool, error)) (fieldtask.ToggleResponse, error) {
	var (
		task   fieldtask.FieldTask
		closed bool
	)
	err := s.txr.WithinTx(ctx, func(ctx context.Context) error {
		active, err := s.tasks.GetActive(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to load active field task: %w", err)
		}
		if active == nil {
			return nil
		}

		closed, err = end(ctx, active.ID)
		if err != nil {
			return fmt.Errorf("failed to close field task: %w", err)
		}
		if !closed {
			return nil
		}

		task, err = s.tasks.GetByID(ctx, active.ID)
		return err
	})
	if err != nil {
		return fieldtask.ToggleResponse{}, err
	}
	if !closed {
		return fieldtask.ToggleResponse{ID: 0}, nil
	}

	slog.Info("field task closed", "employee_id", employeeID, "task_id", task.ID, "status", task.Status)
	resp := fieldtask.ToResponse(task)
	return fieldtask.ToggleResponse{ID: task.ID, Status: task.Status, Task: &resp}, nil
}

// Active implements fieldtask.FieldTaskService.
func (s *FieldTaskServiceImpl) Active(ctx context.Context, ref employee.Ref) (*fieldtask.FieldTaskResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, ref)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetActive(ctx, emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active field task: %w", err)
	}
	if task == nil {
		return nil, nil
	}
	resp := fieldtask.ToResponse(*task)
	return &resp, nil
}

// List implements fieldtask.FieldTaskService.
func (s *FieldTaskServiceImpl) List(ctx context.Context, ref employee.Ref, limit int) ([]fieldtask.FieldTaskResponse, error) {
	switch {
	case limit <= 0:
		limit = attendance.DefaultHistoryLimit
	case limit > attendance.MaxHistoryLimit:
		limit = attendance.MaxHistoryLimit
	}

	emp, err := employee.Resolve(ctx, s.employees, ref)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByEmployee(ctx, emp.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list field tasks: %w", err)
	}

	out := make([]fieldtask.FieldTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, fieldtask.ToResponse(t))
	}
	return out, nil
}
