package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	e, ok := r.store.st.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return r.find(ctx, func(e employee.Employee) bool { return e.EmployeeCode == employeeCode })
}

func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.find(ctx, func(e employee.Employee) bool { return e.UserID != nil && *e.UserID == userID })
}

func (r *employeeRepositoryImpl) find(ctx context.Context, match func(employee.Employee) bool) (employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, e := range r.store.st.employees {
		if match(e) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return r.list(ctx, func(e employee.Employee) bool { return e.IsActive() })
}

func (r *employeeRepositoryImpl) ListAll(ctx context.Context) ([]employee.Employee, error) {
	return r.list(ctx, func(employee.Employee) bool { return true })
}

func (r *employeeRepositoryImpl) list(ctx context.Context, keep func(employee.Employee) bool) ([]employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var out []employee.Employee
	for _, e := range r.store.st.employees {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b employee.Employee) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *employeeRepositoryImpl) BindDevice(ctx context.Context, id int64, deviceID string, at time.Time) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	e, ok := r.store.st.employees[id]
	if !ok {
		return false, employee.ErrEmployeeNotFound
	}
	if e.RegisteredDeviceID != nil {
		return false, nil
	}
	e.RegisteredDeviceID = &deviceID
	e.DeviceRegisteredAt = &at
	e.UpdatedAt = at
	r.store.st.employees[id] = e
	return true, nil
}

func (r *employeeRepositoryImpl) ClearDevice(ctx context.Context, id int64) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	e, ok := r.store.st.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.RegisteredDeviceID = nil
	e.DeviceRegisteredAt = nil
	e.UpdatedAt = r.store.clock.Now()
	r.store.st.employees[id] = e
	return nil
}
