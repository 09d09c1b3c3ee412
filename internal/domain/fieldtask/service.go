package fieldtask

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type FieldTaskService interface {
	Toggle(ctx context.Context, req ToggleRequest) (ToggleResponse, error)
	// Active returns nil when no task is active.
	Active(ctx context.Context, ref employee.Ref) (*FieldTaskResponse, error)
	Cancel(ctx context.Context, ref employee.Ref) (ToggleResponse, error)
	List(ctx context.Context, ref employee.Ref, limit int) ([]FieldTaskResponse, error)
}
