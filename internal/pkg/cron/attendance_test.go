package cron_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type absenteeSource struct {
	attendance.AttendanceService
	calls     int
	absentees []attendance.AbsenteeResponse
}

func (s *absenteeSource) Absentees(ctx context.Context, date time.Time) ([]attendance.AbsenteeResponse, error) {
	s.calls++
	return s.absentees, nil
}

type recordingNotifier struct {
	notification.Service
	mu     sync.Mutex
	queued []notification.CreateNotificationRequest
}

func (n *recordingNotifier) Queue(ctx context.Context, req notification.CreateNotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.queued = append(n.queued, req)
	return nil
}

var jakarta = time.FixedZone("UTC+07:00", 7*3600)

func TestAbsenteeDigest_OncePerDayAfterDigestTime(t *testing.T) {
	branch := int64(4)
	source := &absenteeSource{absentees: []attendance.AbsenteeResponse{
		{EmployeeID: 2, EmployeeCode: "EMP-002", BranchID: &branch},
		{EmployeeID: 1, EmployeeCode: "EMP-001", BranchID: &branch},
		{EmployeeID: 3, EmployeeCode: "EMP-003"},
	}}
	notifier := &recordingNotifier{}
	clk := clock.NewFixed(time.Date(2025, 3, 10, 16, 45, 0, 0, jakarta))

	jobs, err := cron.NewAttendanceJobs(source, notifier, clk, "17:00")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, jobs.AbsenteeDigest(ctx))
	assert.Zero(t, source.calls)
	assert.Empty(t, notifier.queued)

	clk.Set(time.Date(2025, 3, 10, 17, 5, 0, 0, jakarta))
	require.NoError(t, jobs.AbsenteeDigest(ctx))
	require.Len(t, notifier.queued, 2)

	admin := notifier.queued[0]
	assert.Equal(t, notification.AudienceAdmin, admin.Audience)
	assert.Equal(t, notification.TypeAbsenteeDigest, admin.Type)
	assert.Equal(t, []string{"EMP-001", "EMP-002", "EMP-003"}, admin.Data["employee_codes"])

	branchCopy := notifier.queued[1]
	assert.Equal(t, notification.AudienceBranch, branchCopy.Audience)
	require.NotNil(t, branchCopy.BranchID)
	assert.Equal(t, branch, *branchCopy.BranchID)
	assert.Equal(t, []string{"EMP-001", "EMP-002"}, branchCopy.Data["employee_codes"])

	clk.Set(time.Date(2025, 3, 10, 17, 20, 0, 0, jakarta))
	require.NoError(t, jobs.AbsenteeDigest(ctx))
	assert.Equal(t, 1, source.calls)

	clk.Set(time.Date(2025, 3, 11, 17, 0, 0, 0, jakarta))
	require.NoError(t, jobs.AbsenteeDigest(ctx))
	assert.Equal(t, 2, source.calls)
}

func TestAbsenteeDigest_NothingToReport(t *testing.T) {
	notifier := &recordingNotifier{}
	clk := clock.NewFixed(time.Date(2025, 3, 10, 18, 0, 0, 0, jakarta))

	jobs, err := cron.NewAttendanceJobs(&absenteeSource{}, notifier, clk, "17:00")
	require.NoError(t, err)

	require.NoError(t, jobs.AbsenteeDigest(context.Background()))
	assert.Empty(t, notifier.queued)
}

func TestNewAttendanceJobs_RejectsBadTime(t *testing.T) {
	_, err := cron.NewAttendanceJobs(&absenteeSource{}, &recordingNotifier{}, clock.NewFixed(time.Now()), "5pm")
	assert.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := cron.NewScheduler()
	runs := 0
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs++
		return nil
	})

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	assert.Equal(t, 2, runs)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := cron.NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("ping", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
