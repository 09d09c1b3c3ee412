package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/fieldtask"
)

type fieldTaskRepositoryImpl struct {
	store *Store
}

func NewFieldTaskRepository(store *Store) fieldtask.FieldTaskRepository {
	return &fieldTaskRepositoryImpl{store: store}
}

func (r *fieldTaskRepositoryImpl) GetActive(ctx context.Context, employeeID int64) (*fieldtask.FieldTask, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	return r.active(employeeID), nil
}

func (r *fieldTaskRepositoryImpl) active(employeeID int64) *fieldtask.FieldTask {
	for _, t := range r.store.st.tasks {
		if t.EmployeeID == employeeID && t.Status == fieldtask.StatusActive {
			found := t
			return &found
		}
	}
	return nil
}

func (r *fieldTaskRepositoryImpl) Create(ctx context.Context, task fieldtask.FieldTask) (fieldtask.FieldTask, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.active(task.EmployeeID) != nil {
		return fieldtask.FieldTask{}, fieldtask.ErrActiveTaskExists
	}
	now := r.store.clock.Now()
	task.ID = r.store.nextID()
	task.Status = fieldtask.StatusActive
	task.CreatedAt, task.UpdatedAt = now, now
	r.store.st.tasks[task.ID] = task
	return task, nil
}

func (r *fieldTaskRepositoryImpl) Complete(ctx context.Context, id int64, end attendance.Punch) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	t, ok := r.store.st.tasks[id]
	if !ok || t.Status != fieldtask.StatusActive {
		return false, nil
	}
	endTime, lat, lon, method := end.Time, end.Latitude, end.Longitude, end.Method
	t.EndTime, t.EndLatitude, t.EndLongitude, t.EndMethod = &endTime, &lat, &lon, &method
	t.Status = fieldtask.StatusCompleted
	t.UpdatedAt = r.store.clock.Now()
	r.store.st.tasks[id] = t
	return true, nil
}

func (r *fieldTaskRepositoryImpl) Cancel(ctx context.Context, id int64, at time.Time) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	t, ok := r.store.st.tasks[id]
	if !ok || t.Status != fieldtask.StatusActive {
		return false, nil
	}
	t.Status = fieldtask.StatusCancelled
	t.UpdatedAt = at
	r.store.st.tasks[id] = t
	return true, nil
}

func (r *fieldTaskRepositoryImpl) GetByID(ctx context.Context, id int64) (fieldtask.FieldTask, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	t, ok := r.store.st.tasks[id]
	if !ok {
		return fieldtask.FieldTask{}, fieldtask.ErrFieldTaskNotFound
	}
	return t, nil
}

func (r *fieldTaskRepositoryImpl) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]fieldtask.FieldTask, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var out []fieldtask.FieldTask
	for _, t := range r.store.st.tasks {
		if t.EmployeeID == employeeID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b fieldtask.FieldTask) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
