package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/fieldtask"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestEmployeeRepository_BindDeviceOnce(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	id, err := setup.InsertEmployee(ctx, "EMP-001", nil)
	require.NoError(t, err)

	bound, err := repo.BindDevice(ctx, id, "D1", time.Now())
	require.NoError(t, err)
	assert.True(t, bound)

	bound, err = repo.BindDevice(ctx, id, "D2", time.Now())
	require.NoError(t, err)
	assert.False(t, bound)

	emp, err := repo.GetByEmployeeCode(ctx, "EMP-001")
	require.NoError(t, err)
	require.NotNil(t, emp.RegisteredDeviceID)
	assert.Equal(t, "D1", *emp.RegisteredDeviceID)
	assert.Equal(t, employee.StatusActive, emp.Status)

	require.NoError(t, repo.ClearDevice(ctx, id))
	emp, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, emp.RegisteredDeviceID)

	_, err = repo.GetByID(ctx, id+100)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceRepository_OneRecordPerDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	txr := postgresql.NewTransactor(setup.DB)

	empID, err := setup.InsertEmployee(ctx, "EMP-001", nil)
	require.NoError(t, err)

	checkIn := day.Add(8 * time.Hour)
	punch := attendance.Punch{Time: checkIn, Latitude: -6.17, Longitude: 106.82, Method: attendance.MethodCode}
	status := attendance.StatusPresent

	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID:       empID,
		Date:             day,
		CheckInTime:      &punch.Time,
		CheckInLatitude:  &punch.Latitude,
		CheckInLongitude: &punch.Longitude,
		CheckInMethod:    &punch.Method,
		Status:           &status,
	})
	require.NoError(t, err)
	assert.True(t, created.Date.Equal(day))

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: empID, Date: day})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	err = txr.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := repo.GetByEmployeeAndDateForUpdate(ctx, empID, day)
		require.NoError(t, err)
		require.NotNil(t, locked)

		out := attendance.Punch{Time: day.Add(17 * time.Hour), Latitude: -6.17, Longitude: 106.82, Method: attendance.MethodCode}
		ok, err := repo.RecordCheckOut(ctx, locked.ID, out)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.RecordCheckOut(ctx, locked.ID, out)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	ids, err := repo.ListCheckedInEmployeeIDs(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, []int64{empID}, ids)

	missing, err := repo.GetByEmployeeAndDate(ctx, empID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.ClearCheckOut(ctx, created.ID))
	rec, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, rec.CheckOutTime)
	assert.Nil(t, rec.CheckOutMethod)
}

func TestLocationRepository_LatestSince(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLocationRepository(setup.DB)

	empID, err := setup.InsertEmployee(ctx, "EMP-001", nil)
	require.NoError(t, err)

	since := day.Add(8 * time.Hour)
	latest, err := repo.LatestSince(ctx, empID, since)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i, inside := range []bool{true, false} {
		_, err := repo.Create(ctx, attendance.LocationPing{
			EmployeeID: empID, Latitude: -6.17, Longitude: 106.82, InsideZone: inside,
			RecordedAt: since.Add(time.Duration(i+1) * time.Minute),
		})
		require.NoError(t, err)
	}

	latest, err = repo.LatestSince(ctx, empID, since)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.False(t, latest.InsideZone)
}

func TestWorkZoneRepository_UniqueName(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewWorkZoneRepository(setup.DB)

	hq, err := repo.Create(ctx, workzone.WorkZone{Name: "HQ", Latitude: -6.1754, Longitude: 106.8272, RadiusMeters: 150, IsActive: true})
	require.NoError(t, err)

	_, err = repo.Create(ctx, workzone.WorkZone{Name: "HQ", Latitude: 0, Longitude: 0, RadiusMeters: 10, IsActive: true})
	assert.ErrorIs(t, err, workzone.ErrWorkZoneExists)

	hq.IsActive = false
	_, err = repo.Update(ctx, hq)
	require.NoError(t, err)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Delete(ctx, hq.ID))
	assert.ErrorIs(t, repo.Delete(ctx, hq.ID), workzone.ErrWorkZoneNotFound)
}

func TestFieldTaskRepository_SingleActiveTask(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewFieldTaskRepository(setup.DB)

	empID, err := setup.InsertEmployee(ctx, "EMP-001", nil)
	require.NoError(t, err)

	task := fieldtask.FieldTask{
		EmployeeID: empID, Date: day, StartTime: day.Add(9 * time.Hour),
		StartLatitude: -6.2, StartLongitude: 106.8, StartMethod: attendance.MethodSession,
	}
	created, err := repo.Create(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, fieldtask.StatusActive, created.Status)

	_, err = repo.Create(ctx, task)
	assert.ErrorIs(t, err, fieldtask.ErrActiveTaskExists)

	ok, err := repo.Cancel(ctx, created.ID, day.Add(10*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Cancel(ctx, created.ID, day.Add(10*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	active, err := repo.GetActive(ctx, empID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestLeaveRepositories_DecideAndConsume(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	requests := postgresql.NewLeaveRequestRepository(setup.DB)
	balances := postgresql.NewLeaveBalanceRepository(setup.DB)

	empID, err := setup.InsertEmployee(ctx, "EMP-001", nil)
	require.NoError(t, err)
	reviewerID, err := setup.InsertEmployee(ctx, "ADM-001", nil)
	require.NoError(t, err)

	req, err := requests.Create(ctx, leave.LeaveRequest{
		EmployeeID: empID, LeaveType: leave.LeaveTypeAnnual,
		StartDate: day, EndDate: day.AddDate(0, 0, 2), TotalDays: 3, BalanceYear: 2025,
		Reason: "trip", Status: leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)

	ok, err := requests.DecideIfPending(ctx, req.ID, leave.LeaveRequestStatusApproved, reviewerID, time.Now(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = requests.DecideIfPending(ctx, req.ID, leave.LeaveRequestStatusRejected, reviewerID, time.Now(), nil)
	require.NoError(t, err)
	assert.False(t, ok)

	approved := leave.LeaveRequestStatusApproved
	mine, err := requests.ListByEmployee(ctx, empID, &approved)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, balances.IncrementUsed(ctx, empID, 2025, leave.LeaveTypeAnnual, 1))
		}()
	}
	wg.Wait()

	b, err := balances.GetOrCreate(ctx, empID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 5, b.UsedAnnual)
	assert.Equal(t, leave.DefaultAnnualBalance, b.AnnualBalance)
}

func TestNotificationRepository_FeedScope(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNotificationRepository(setup.DB)

	branch := int64(3)
	now := time.Now().UTC()
	adminCopy := notification.Notification{
		ID: uuid.New().String(), Audience: notification.AudienceAdmin, Type: notification.TypeLateArrival,
		Title: "Late", Message: "late", Data: map[string]any{"employee_id": float64(7)}, CreatedAt: now,
	}
	branchCopy := adminCopy
	branchCopy.ID = uuid.New().String()
	branchCopy.Audience = notification.AudienceBranch
	branchCopy.BranchID = &branch

	require.NoError(t, repo.CreateBatch(ctx, []notification.Notification{adminCopy, branchCopy}))

	feed, total, err := repo.List(ctx, notification.AudienceBranch, &branch, 1, 20, false)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, feed, 1)
	assert.Equal(t, float64(7), feed[0].Data["employee_id"])

	// The admin id is outside the branch feed and stays unread.
	require.NoError(t, repo.MarkAsRead(ctx, []string{adminCopy.ID, branchCopy.ID}, notification.AudienceBranch, &branch, now))

	unread, err := repo.UnreadCount(ctx, notification.AudienceBranch, &branch)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = repo.UnreadCount(ctx, notification.AudienceAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}
