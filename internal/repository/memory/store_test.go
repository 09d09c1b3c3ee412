package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(clock.NewFixed(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)))
}

func TestTransactor_RollbackRestoresState(t *testing.T) {
	store := newTestStore()
	tx := NewTransactor(store)
	repo := NewAttendanceRepository(store)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: 1, Date: date})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rec, err := repo.GetByEmployeeAndDate(ctx, 1, date)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	store := newTestStore()
	tx := NewTransactor(store)
	repo := NewAttendanceRepository(store)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: 9, Date: date})
			return err
		})
	})
	require.NoError(t, err)

	rec, err := repo.GetByEmployeeAndDate(context.Background(), 9, date)
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestAttendanceCreate_DuplicateDay(t *testing.T) {
	store := newTestStore()
	repo := NewAttendanceRepository(store)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: 1, Date: date})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: 1, Date: date})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestBindDevice_OnlyWhenUnbound(t *testing.T) {
	store := newTestStore()
	repo := NewEmployeeRepository(store)
	emp := store.AddEmployee(employee.Employee{EmployeeCode: "E1"})
	ctx := context.Background()
	now := time.Now()

	bound, err := repo.BindDevice(ctx, emp.ID, "D1", now)
	require.NoError(t, err)
	assert.True(t, bound)

	bound, err = repo.BindDevice(ctx, emp.ID, "D2", now)
	require.NoError(t, err)
	assert.False(t, bound)

	got, _ := repo.GetByID(ctx, emp.ID)
	assert.Equal(t, "D1", *got.RegisteredDeviceID)
}

func TestIncrementUsed_Concurrent(t *testing.T) {
	store := newTestStore()
	repo := NewLeaveBalanceRepository(store)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 1, 2025)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementUsed(ctx, 1, 2025, leave.LeaveTypeSick, 1))
		}()
	}
	wg.Wait()

	b, err := repo.GetOrCreate(ctx, 1, 2025)
	require.NoError(t, err)
	assert.Equal(t, 20, b.UsedSick)
}
