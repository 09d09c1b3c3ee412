package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
)

type AttendanceServiceImpl struct {
	txr       database.Transactor
	employees employee.EmployeeRepository
	records   attendance.AttendanceRepository
	locations attendance.LocationRepository
	settings  *SettingsProvider
	zones     workzone.WorkZoneRepository
	guard     device.Guard
	notifier  notification.Service
	clock     clock.Clock
}

func NewAttendanceService(
	txr database.Transactor,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	locationRepo attendance.LocationRepository,
	settings *SettingsProvider,
	zoneRepo workzone.WorkZoneRepository,
	guard device.Guard,
	notifier notification.Service,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txr:       txr,
		employees: employeeRepo,
		records:   attendanceRepo,
		locations: locationRepo,
		settings:  settings,
		zones:     zoneRepo,
		guard:     guard,
		notifier:  notifier,
		clock:     clk,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.PunchRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	emp, err := employee.ResolveActive(ctx, s.employees, req.Ref())
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	if req.DeviceID != nil {
		if _, err := s.guard.Verify(ctx, emp, *req.DeviceID); err != nil {
			return attendance.CheckInResponse{}, err
		}
	}

	now := s.clock.Now()
	date := clock.DateOf(now)

	current, err := s.records.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if _, err := attendance.BeginCheckIn(attendance.StateOf(current)); err != nil {
		return attendance.CheckInResponse{}, err
	}

	lat, lon := req.Point()
	fence, err := s.evaluateFence(ctx, lat, lon)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	if !fence.Inside {
		slog.Info("check-in rejected outside work zones",
			"employee_id", emp.ID, "latitude", lat, "longitude", lon, "nearest_meters", fence.NearestMeters)
		s.notifier.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
			EmployeeID: emp.ID,
			BranchID:   emp.BranchID,
			Type:       notification.TypeOutsideZone,
			Title:      "Check-in outside work zone",
			Message:    fmt.Sprintf("%s (%s) tried to check in outside every work zone", emp.FullName, emp.EmployeeCode),
			Data: map[string]any{
				"employee_code":  emp.EmployeeCode,
				"latitude":       lat,
				"longitude":      lon,
				"nearest_meters": fence.NearestMeters,
			},
		})
		return attendance.CheckInResponse{}, attendance.ErrOutsideWorkZone
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	status, err := settings.StatusAt(now)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	punch := attendance.Punch{Time: now, Latitude: lat, Longitude: lon, Method: req.Method}

	var recordID int64
	err = s.txr.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.records.GetByEmployeeAndDateForUpdate(ctx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("failed to lock today's record: %w", err)
		}
		existing, err := attendance.BeginCheckIn(attendance.StateOf(current))
		if err != nil {
			return err
		}
		if err := s.confirmDevice(ctx, emp, req.DeviceID); err != nil {
			return err
		}

		if existing == nil {
			created, err := s.records.Create(ctx, newCheckInRecord(emp.ID, date, punch, status))
			if err != nil {
				return err
			}
			recordID = created.ID
			return nil
		}

		ok, err := s.records.RecordCheckIn(ctx, existing.ID, punch, status)
		if err != nil {
			return fmt.Errorf("failed to record check-in: %w", err)
		}
		if !ok {
			return attendance.ErrAlreadyCheckedIn
		}
		recordID = existing.ID
		return nil
	})
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	slog.Info("employee checked in", "employee_id", emp.ID, "record_id", recordID, "status", status)

	if status == attendance.StatusLate {
		s.notifier.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
			EmployeeID: emp.ID,
			BranchID:   emp.BranchID,
			Type:       notification.TypeLateArrival,
			Title:      "Late arrival",
			Message:    fmt.Sprintf("%s (%s) checked in late at %s", emp.FullName, emp.EmployeeCode, now.Format("15:04")),
			Data: map[string]any{
				"employee_code": emp.EmployeeCode,
				"record_id":     recordID,
				"check_in_time": now.Format(time.RFC3339),
			},
		})
	}

	resp := attendance.CheckInResponse{
		RecordID:    recordID,
		Status:      status,
		CheckInTime: now.Format(time.RFC3339),
	}
	if fence.ZoneName != "" {
		name := fence.ZoneName
		resp.ZoneName = &name
	}
	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.PunchRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	emp, err := employee.ResolveActive(ctx, s.employees, req.Ref())
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	if req.DeviceID != nil {
		if _, err := s.guard.Verify(ctx, emp, *req.DeviceID); err != nil {
			return attendance.CheckOutResponse{}, err
		}
	}

	now := s.clock.Now()
	date := clock.DateOf(now)

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	early, err := settings.IsEarlyCheckout(now)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	lat, lon := req.Point()
	punch := attendance.Punch{Time: now, Latitude: lat, Longitude: lon, Method: req.Method}

	var recordID int64
	err = s.txr.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.records.GetByEmployeeAndDateForUpdate(ctx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("failed to lock today's record: %w", err)
		}
		rec, err := attendance.BeginCheckOut(attendance.StateOf(current))
		if err != nil {
			return err
		}
		if err := s.confirmDevice(ctx, emp, req.DeviceID); err != nil {
			return err
		}

		ok, err := s.records.RecordCheckOut(ctx, rec.ID, punch)
		if err != nil {
			return fmt.Errorf("failed to record check-out: %w", err)
		}
		if !ok {
			return attendance.ErrAlreadyCheckedOut
		}
		recordID = rec.ID
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	slog.Info("employee checked out", "employee_id", emp.ID, "record_id", recordID, "early", early)

	if early {
		s.notifier.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
			EmployeeID: emp.ID,
			BranchID:   emp.BranchID,
			Type:       notification.TypeEarlyCheckout,
			Title:      "Early check-out",
			Message:    fmt.Sprintf("%s (%s) checked out early at %s", emp.FullName, emp.EmployeeCode, now.Format("15:04")),
			Data: map[string]any{
				"employee_code":  emp.EmployeeCode,
				"record_id":      recordID,
				"check_out_time": now.Format(time.RFC3339),
			},
		})
	}

	return attendance.CheckOutResponse{
		RecordID:      recordID,
		CheckOutTime:  now.Format(time.RFC3339),
		EarlyCheckout: early,
	}, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, ref employee.Ref) (*attendance.AttendanceResponse, error) {
	emp, err := employee.Resolve(ctx, s.employees, ref)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.GetByEmployeeAndDate(ctx, emp.ID, clock.DateOf(s.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	resp := toResponse(*rec, s.clock.Location())
	return &resp, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, req attendance.HistoryRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	emp, err := employee.Resolve(ctx, s.employees, req.Ref)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListByEmployee(ctx, emp.ID, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	loc := s.clock.Location()
	out := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toResponse(rec, loc))
	}
	return out, nil
}

// Absentees implements attendance.AttendanceService. A zero date means today.
func (s *AttendanceServiceImpl) Absentees(ctx context.Context, date time.Time) ([]attendance.AbsenteeResponse, error) {
	if date.IsZero() {
		date = s.clock.Now()
	}
	date = clock.DateOf(date)

	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	ids, err := s.records.ListCheckedInEmployeeIDs(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list checked-in employees: %w", err)
	}
	checkedIn := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		checkedIn[id] = struct{}{}
	}

	out := make([]attendance.AbsenteeResponse, 0)
	for _, emp := range employees {
		if _, ok := checkedIn[emp.ID]; ok {
			continue
		}
		out = append(out, attendance.AbsenteeResponse{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			FullName:     emp.FullName,
			BranchID:     emp.BranchID,
		})
	}
	return out, nil
}

// confirmDevice binds a first-use device once the attempt has passed every other check.
func (s *AttendanceServiceImpl) confirmDevice(ctx context.Context, emp employee.Employee, deviceID *string) error {
	if deviceID == nil {
		return nil
	}
	_, err := s.guard.Confirm(ctx, emp, *deviceID)
	return err
}

func (s *AttendanceServiceImpl) evaluateFence(ctx context.Context, lat, lon float64) (geo.Result, error) {
	zones, err := s.zones.ListActive(ctx)
	if err != nil {
		return geo.Result{}, fmt.Errorf("failed to list work zones: %w", err)
	}
	return geo.IsInsideAnyZone(geo.Point{Latitude: lat, Longitude: lon}, workzone.GeoZones(zones)), nil
}

func newCheckInRecord(employeeID int64, date time.Time, p attendance.Punch, status attendance.Status) attendance.Attendance {
	at, lat, lon, method := p.Time, p.Latitude, p.Longitude, p.Method
	return attendance.Attendance{
		EmployeeID:       employeeID,
		Date:             date,
		CheckInTime:      &at,
		CheckInLatitude:  &lat,
		CheckInLongitude: &lon,
		CheckInMethod:    &method,
		Status:           &status,
	}
}
