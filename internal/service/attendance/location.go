package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
)

// UpdateLocation stores a position report and raises a left-zone alert on the
// first outside ping after an inside one during a checked-in day.
func (s *AttendanceServiceImpl) UpdateLocation(ctx context.Context, req attendance.LocationUpdateRequest) (attendance.LocationAck, error) {
	if err := req.Validate(); err != nil {
		return attendance.LocationAck{}, err
	}

	emp, err := employee.ResolveActive(ctx, s.employees, req.Ref())
	if err != nil {
		return attendance.LocationAck{}, err
	}

	now := s.clock.Now()
	lat, lon := *req.Latitude, *req.Longitude

	fence, err := s.evaluateFence(ctx, lat, lon)
	if err != nil {
		return attendance.LocationAck{}, err
	}

	today, err := s.records.GetByEmployeeAndDate(ctx, emp.ID, clock.DateOf(now))
	if err != nil {
		return attendance.LocationAck{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	checkedIn := attendance.IsCheckedIn(attendance.StateOf(today))

	// Read the previous ping before storing this one.
	var previous *attendance.LocationPing
	if checkedIn {
		previous, err = s.locations.LatestSince(ctx, emp.ID, *today.CheckInTime)
		if err != nil {
			return attendance.LocationAck{}, fmt.Errorf("failed to load previous location: %w", err)
		}
	}

	ping := attendance.LocationPing{
		EmployeeID: emp.ID,
		Latitude:   lat,
		Longitude:  lon,
		Accuracy:   req.Accuracy,
		InsideZone: fence.Inside,
		RecordedAt: now,
	}
	if fence.ZoneName != "" {
		name := fence.ZoneName
		ping.ZoneName = &name
	}
	if _, err := s.locations.Create(ctx, ping); err != nil {
		return attendance.LocationAck{}, fmt.Errorf("failed to store location: %w", err)
	}

	alert := checkedIn && !fence.Inside && (previous == nil || previous.InsideZone)
	if alert {
		slog.Info("employee left work zone", "employee_id", emp.ID, "nearest_meters", fence.NearestMeters)
		s.notifier.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
			EmployeeID: emp.ID,
			BranchID:   emp.BranchID,
			Type:       notification.TypeLeftZone,
			Title:      "Left work zone",
			Message:    fmt.Sprintf("%s (%s) left the work zone while checked in", emp.FullName, emp.EmployeeCode),
			Data: map[string]any{
				"employee_code":  emp.EmployeeCode,
				"latitude":       lat,
				"longitude":      lon,
				"nearest_meters": fence.NearestMeters,
				"recorded_at":    now.Format(time.RFC3339),
			},
		})
	}

	return attendance.LocationAck{
		InsideZone:    fence.Inside,
		ZoneName:      ping.ZoneName,
		CheckedIn:     checkedIn,
		ZoneExitAlert: alert,
	}, nil
}
