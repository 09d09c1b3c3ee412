package attendance_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	devicesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/device"
	notificationsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var jakarta = time.FixedZone("UTC+07:00", 7*3600)

// HQ sits on Monas; Outside is roughly 2 km south.
var (
	hqLat, hqLon           = -6.175392, 106.827153
	outsideLat, outsideLon = -6.195007, 106.823088
)

type fixture struct {
	ctx         context.Context
	clock       *clock.Fixed
	store       *memory.Store
	employees   employee.EmployeeRepository
	records     attendance.AttendanceRepository
	zones       workzone.WorkZoneRepository
	notifier    notification.Service
	svc         attendance.AttendanceService
	corrections attendance.CorrectionService
	emp         employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewFixed(time.Date(2025, 3, 10, 8, 0, 0, 0, jakarta))
	store := memory.NewStore(clk)
	txr := memory.NewTransactor(store)

	employees := memory.NewEmployeeRepository(store)
	records := memory.NewAttendanceRepository(store)
	zones := memory.NewWorkZoneRepository(store)

	notifier := notificationsvc.NewNotificationService(
		memory.NewNotificationRepository(store), sse.NewHub(), clk,
		notificationsvc.Config{FlushInterval: 10 * time.Millisecond},
	)
	t.Cleanup(notifier.Stop)

	settings := attendancesvc.NewSettingsProvider(memory.NewWorkSettingsRepository(store), attendance.WorkSettings{
		WorkStartTime:        "08:00",
		WorkEndTime:          "17:00",
		LateThresholdMinutes: 15,
	})
	guard := devicesvc.NewGuard(employees, notifier, clk)

	branch := int64(3)
	emp := store.AddEmployee(employee.Employee{EmployeeCode: "EMP-001", FullName: "Sari Wulandari", BranchID: &branch})

	_, err := zones.Create(context.Background(), workzone.WorkZone{
		Name: "HQ", Latitude: hqLat, Longitude: hqLon, RadiusMeters: 150, IsActive: true,
	})
	require.NoError(t, err)

	return &fixture{
		ctx:         context.Background(),
		clock:       clk,
		store:       store,
		employees:   employees,
		records:     records,
		zones:       zones,
		notifier:    notifier,
		svc:         attendancesvc.NewAttendanceService(txr, employees, records, memory.NewLocationRepository(store), settings, zones, guard, notifier, clk),
		corrections: attendancesvc.NewCorrectionService(txr, employees, records, memory.NewModificationRepository(store), settings, clk),
		emp:         emp,
	}
}

func (f *fixture) at(hour, minute int) {
	f.clock.Set(time.Date(2025, 3, 10, hour, minute, 0, 0, jakarta))
}

func (f *fixture) punch(lat, lon float64) attendance.PunchRequest {
	return attendance.PunchRequest{
		EmployeeCode: f.emp.EmployeeCode,
		Latitude:     &lat,
		Longitude:    &lon,
		Method:       attendance.MethodCode,
	}
}

// adminTypes stops the notifier so the queue is flushed, then lists admin feed types.
func (f *fixture) adminTypes() []notification.NotificationType {
	f.notifier.Stop()
	var out []notification.NotificationType
	for _, n := range f.store.Notifications() {
		if n.Audience == notification.AudienceAdmin {
			out = append(out, n.Type)
		}
	}
	return out
}

func TestCheckIn_OnTimeBoundary(t *testing.T) {
	f := newFixture(t)
	f.at(8, 15)

	resp, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	require.NotNil(t, resp.ZoneName)
	assert.Equal(t, "HQ", *resp.ZoneName)

	today, err := f.svc.Today(f.ctx, employee.Ref{ID: f.emp.ID})
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, "2025-03-10", today.Date)
	assert.Equal(t, "2025-03-10T08:15:00+07:00", *today.CheckInTime)
	assert.Nil(t, today.CheckOutTime)

	assert.NotContains(t, f.adminTypes(), notification.TypeLateArrival)
}

func TestCheckIn_LateOneMinutePastThreshold(t *testing.T) {
	f := newFixture(t)
	f.at(8, 16)

	resp, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)

	assert.Contains(t, f.adminTypes(), notification.TypeLateArrival)
}

func TestCheckIn_StoredSettingsOverrideDefaults(t *testing.T) {
	f := newFixture(t)
	f.store.SetWorkSettings(attendance.WorkSettings{WorkStartTime: "09:00", WorkEndTime: "18:00", LateThresholdMinutes: 0})
	f.at(8, 30)

	resp, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestSettingsProvider_InvalidRowFallsBack(t *testing.T) {
	store := memory.NewStore(clock.NewFixed(time.Date(2025, 3, 10, 8, 0, 0, 0, jakarta)))
	store.SetWorkSettings(attendance.WorkSettings{WorkStartTime: "18:00", WorkEndTime: "17:00"})
	fallback := attendance.WorkSettings{WorkStartTime: "08:00", WorkEndTime: "17:00", LateThresholdMinutes: 15}

	got, err := attendancesvc.NewSettingsProvider(memory.NewWorkSettingsRepository(store), fallback).Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallback, got)
}

func TestCheckIn_OutsideZoneIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(f.ctx, f.punch(outsideLat, outsideLon))
	require.ErrorIs(t, err, attendance.ErrOutsideWorkZone)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	today, err := f.svc.Today(f.ctx, employee.Ref{ID: f.emp.ID})
	require.NoError(t, err)
	assert.Nil(t, today)

	assert.Contains(t, f.adminTypes(), notification.TypeOutsideZone)
}

func TestCheckIn_NoActiveZonesAllowsAnywhere(t *testing.T) {
	f := newFixture(t)
	zones, err := f.zones.List(f.ctx)
	require.NoError(t, err)
	for _, z := range zones {
		require.NoError(t, f.zones.Delete(f.ctx, z.ID))
	}

	resp, err := f.svc.CheckIn(f.ctx, f.punch(outsideLat, outsideLon))
	require.NoError(t, err)
	assert.Nil(t, resp.ZoneName)
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)

	f.at(9, 0)
	_, err = f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Checked-out days cannot be re-opened by checking in again.
	f.at(17, 0)
	_, err = f.svc.CheckOut(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_InactiveEmployee(t *testing.T) {
	f := newFixture(t)
	gone := f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-OLD", Status: employee.StatusInactive})

	req := f.punch(hqLat, hqLon)
	req.EmployeeCode = gone.EmployeeCode
	_, err := f.svc.CheckIn(f.ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestCheckIn_ValidationFailure(t *testing.T) {
	f := newFixture(t)

	req := f.punch(hqLat, hqLon)
	req.Latitude = nil
	req.Method = "pigeon"
	_, err := f.svc.CheckIn(f.ctx, req)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCheckOut_Lifecycle(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckOut(f.ctx, f.punch(hqLat, hqLon))
	require.ErrorIs(t, err, attendance.ErrNoCheckInToday)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	in, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)

	f.at(17, 5)
	out, err := f.svc.CheckOut(f.ctx, f.punch(outsideLat, outsideLon))
	require.NoError(t, err)
	assert.Equal(t, in.RecordID, out.RecordID)
	assert.False(t, out.EarlyCheckout)

	_, err = f.svc.CheckOut(f.ctx, f.punch(hqLat, hqLon))
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	today, err := f.svc.Today(f.ctx, employee.Ref{Code: f.emp.EmployeeCode})
	require.NoError(t, err)
	require.NotNil(t, today.WorkingMinutes)
	assert.Equal(t, 545, *today.WorkingMinutes)
}

func TestCheckOut_EarlyWindow(t *testing.T) {
	cases := []struct {
		name         string
		hour, minute int
		early        bool
	}{
		{"just before window", 14, 59, true},
		{"window edge", 15, 0, false},
		{"after hours", 18, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
			require.NoError(t, err)

			f.at(c.hour, c.minute)
			out, err := f.svc.CheckOut(f.ctx, f.punch(hqLat, hqLon))
			require.NoError(t, err)
			assert.Equal(t, c.early, out.EarlyCheckout)

			if c.early {
				assert.Contains(t, f.adminTypes(), notification.TypeEarlyCheckout)
			} else {
				assert.NotContains(t, f.adminTypes(), notification.TypeEarlyCheckout)
			}
		})
	}
}

func TestCheckIn_DeviceBinding(t *testing.T) {
	f := newFixture(t)
	d1, d2 := "device-1", "device-2"

	req := f.punch(hqLat, hqLon)
	req.DeviceID = &d1
	_, err := f.svc.CheckIn(f.ctx, req)
	require.NoError(t, err)

	emp, err := f.employees.GetByID(f.ctx, f.emp.ID)
	require.NoError(t, err)
	require.NotNil(t, emp.RegisteredDeviceID)
	assert.Equal(t, d1, *emp.RegisteredDeviceID)

	f.at(17, 0)
	req.DeviceID = &d2
	_, err = f.svc.CheckOut(f.ctx, req)
	require.ErrorIs(t, err, device.ErrDeviceUnauthorized)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	emp, err = f.employees.GetByID(f.ctx, f.emp.ID)
	require.NoError(t, err)
	assert.Equal(t, d1, *emp.RegisteredDeviceID)

	today, err := f.svc.Today(f.ctx, employee.Ref{ID: f.emp.ID})
	require.NoError(t, err)
	assert.Nil(t, today.CheckOutTime)

	assert.Contains(t, f.adminTypes(), notification.TypeDeviceMismatch)
}

func TestCheckIn_RejectedAttemptDoesNotBindDevice(t *testing.T) {
	f := newFixture(t)
	borrowed, own := "borrowed-device", "own-device"

	req := f.punch(outsideLat, outsideLon)
	req.DeviceID = &borrowed
	_, err := f.svc.CheckIn(f.ctx, req)
	require.ErrorIs(t, err, attendance.ErrOutsideWorkZone)

	emp, err := f.employees.GetByID(f.ctx, f.emp.ID)
	require.NoError(t, err)
	assert.Nil(t, emp.RegisteredDeviceID)

	req = f.punch(hqLat, hqLon)
	req.DeviceID = &own
	_, err = f.svc.CheckIn(f.ctx, req)
	require.NoError(t, err)

	emp, err = f.employees.GetByID(f.ctx, f.emp.ID)
	require.NoError(t, err)
	require.NotNil(t, emp.RegisteredDeviceID)
	assert.Equal(t, own, *emp.RegisteredDeviceID)
}

func TestCheckIn_DuplicateAttemptDoesNotBindDevice(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)

	d := "second-phone"
	req := f.punch(hqLat, hqLon)
	req.DeviceID = &d
	_, err = f.svc.CheckIn(f.ctx, req)
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	emp, err := f.employees.GetByID(f.ctx, f.emp.ID)
	require.NoError(t, err)
	assert.Nil(t, emp.RegisteredDeviceID)
}

func TestUpdateLocation_ZoneExitEdge(t *testing.T) {
	f := newFixture(t)

	// Not checked in: outside pings never alert.
	ack, err := f.svc.UpdateLocation(f.ctx, f.location(outsideLat, outsideLon))
	require.NoError(t, err)
	assert.False(t, ack.CheckedIn)
	assert.False(t, ack.InsideZone)
	assert.False(t, ack.ZoneExitAlert)

	f.at(8, 5)
	_, err = f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)

	steps := []struct {
		lat, lon float64
		inside   bool
		alert    bool
	}{
		{hqLat, hqLon, true, false},
		{outsideLat, outsideLon, false, true},
		{outsideLat, outsideLon, false, false},
		{hqLat, hqLon, true, false},
		{outsideLat, outsideLon, false, true},
	}
	for i, s := range steps {
		f.clock.Advance(time.Minute)
		ack, err := f.svc.UpdateLocation(f.ctx, f.location(s.lat, s.lon))
		require.NoError(t, err)
		assert.True(t, ack.CheckedIn, "step %d", i)
		assert.Equal(t, s.inside, ack.InsideZone, "step %d", i)
		assert.Equal(t, s.alert, ack.ZoneExitAlert, "step %d", i)
	}

	exits := 0
	for _, typ := range f.adminTypes() {
		if typ == notification.TypeLeftZone {
			exits++
		}
	}
	assert.Equal(t, 2, exits)
}

func TestUpdateLocation_FirstPingAfterCheckInOutside(t *testing.T) {
	f := newFixture(t)

	// A ping before check-in does not count as the previous position.
	f.at(7, 50)
	_, err := f.svc.UpdateLocation(f.ctx, f.location(outsideLat, outsideLon))
	require.NoError(t, err)

	f.at(8, 0)
	_, err = f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)

	f.at(9, 0)
	ack, err := f.svc.UpdateLocation(f.ctx, f.location(outsideLat, outsideLon))
	require.NoError(t, err)
	assert.True(t, ack.ZoneExitAlert)
}

func (f *fixture) location(lat, lon float64) attendance.LocationUpdateRequest {
	return attendance.LocationUpdateRequest{EmployeeID: f.emp.ID, Latitude: &lat, Longitude: &lon}
}

func TestAbsentees(t *testing.T) {
	f := newFixture(t)
	budi := f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-002", FullName: "Budi"})
	f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-003", FullName: "Gone", Status: employee.StatusInactive})

	_, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)

	absent, err := f.svc.Absentees(f.ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, absent, 1)
	assert.Equal(t, budi.ID, absent[0].EmployeeID)

	// Another day with nobody checked in.
	absent, err = f.svc.Absentees(f.ctx, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, absent, 2)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	for day := 10; day <= 12; day++ {
		f.clock.Set(time.Date(2025, 3, day, 8, 0, 0, 0, jakarta))
		_, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
		require.NoError(t, err)
	}

	list, err := f.svc.History(f.ctx, attendance.HistoryRequest{Ref: employee.Ref{ID: f.emp.ID}, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-12", list[0].Date)
	assert.Equal(t, "2025-03-11", list[1].Date)

	_, err = f.svc.History(f.ctx, attendance.HistoryRequest{Ref: employee.Ref{ID: f.emp.ID}, Limit: 500})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CheckIn(f.ctx, f.punch(hqLat, hqLon))
	require.NoError(t, err)

	data, err := f.svc.Export(f.ctx, attendance.DateRangeRequest{StartDate: "2025-03-01", EndDate: "2025-03-31"})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "EMP-001", rows[1][1])
	assert.Equal(t, "08:00:00", rows[1][3])

	_, err = f.svc.Export(f.ctx, attendance.DateRangeRequest{StartDate: "2025-03-31", EndDate: "2025-03-01"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}
