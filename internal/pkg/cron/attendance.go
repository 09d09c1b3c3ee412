package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
)

const absenteeDigestInterval = 15 * time.Minute

// AttendanceJobs posts the daily absentee digest once the working day is over.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	notificationSvc   notification.Service
	clock             clock.Clock
	digestAt          int // minutes after local midnight

	mu         sync.Mutex
	lastDigest time.Time
}

// NewAttendanceJobs schedules the digest at digestAt (HH:MM, organization time).
func NewAttendanceJobs(
	attendanceService attendance.AttendanceService,
	notificationSvc notification.Service,
	clk clock.Clock,
	digestAt string,
) (*AttendanceJobs, error) {
	minutes, err := clock.ParseHHMM(digestAt)
	if err != nil {
		return nil, fmt.Errorf("invalid digest time: %w", err)
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		notificationSvc:   notificationSvc,
		clock:             clk,
		digestAt:          minutes,
	}, nil
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("absentee_digest", absenteeDigestInterval, j.AbsenteeDigest)
}

// AbsenteeDigest sends one admin notification and one per affected branch, at most once per day.
func (j *AttendanceJobs) AbsenteeDigest(ctx context.Context) error {
	now := j.clock.Now()
	today := clock.DateOf(now)
	if clock.MinutesOfDay(now) < j.digestAt {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastDigest.Equal(today) {
		return nil
	}

	absentees, err := j.attendanceService.Absentees(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list absentees: %w", err)
	}
	j.lastDigest = today

	if len(absentees) == 0 {
		slog.Info("no absentees today", "date", today.Format("2006-01-02"))
		return nil
	}

	date := today.Format("2006-01-02")
	j.queue(ctx, notification.CreateNotificationRequest{
		Audience: notification.AudienceAdmin,
		Type:     notification.TypeAbsenteeDigest,
		Title:    "Absentees today",
		Message:  fmt.Sprintf("%d employee(s) did not check in on %s", len(absentees), date),
		Data:     map[string]any{"date": date, "employee_codes": codes(absentees)},
	})

	byBranch := make(map[int64][]attendance.AbsenteeResponse)
	for _, a := range absentees {
		if a.BranchID != nil {
			byBranch[*a.BranchID] = append(byBranch[*a.BranchID], a)
		}
	}
	for branchID, list := range byBranch {
		id := branchID
		j.queue(ctx, notification.CreateNotificationRequest{
			Audience: notification.AudienceBranch,
			BranchID: &id,
			Type:     notification.TypeAbsenteeDigest,
			Title:    "Absentees today",
			Message:  fmt.Sprintf("%d employee(s) of your branch did not check in on %s", len(list), date),
			Data:     map[string]any{"date": date, "employee_codes": codes(list)},
		})
	}

	slog.Info("absentee digest queued", "date", date, "absentees", len(absentees), "branches", len(byBranch))
	return nil
}

func (j *AttendanceJobs) queue(ctx context.Context, req notification.CreateNotificationRequest) {
	if err := j.notificationSvc.Queue(ctx, req); err != nil {
		slog.Warn("failed to queue absentee digest", "audience", req.Audience, "error", err)
	}
}

func codes(list []attendance.AbsenteeResponse) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.EmployeeCode)
	}
	sort.Strings(out)
	return out
}
