package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id int64) (attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	rec, ok := r.store.st.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	return r.findByDay(employeeID, date), nil
}

// Transactions are already serialized, so the lock variant needs nothing extra.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Attendance, error) {
	return r.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (r *attendanceRepositoryImpl) findByDay(employeeID int64, date time.Time) *attendance.Attendance {
	for _, rec := range r.store.st.attendance {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			found := rec
			return &found
		}
	}
	return nil
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.findByDay(record.EmployeeID, record.Date) != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	now := r.store.clock.Now()
	record.ID = r.store.nextID()
	record.CreatedAt, record.UpdatedAt = now, now
	r.store.st.attendance[record.ID] = record
	return record, nil
}

func (r *attendanceRepositoryImpl) RecordCheckIn(ctx context.Context, id int64, punch attendance.Punch, status attendance.Status) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	rec, ok := r.store.st.attendance[id]
	if !ok || rec.CheckInTime != nil {
		return false, nil
	}
	rec.CheckInTime, rec.CheckInLatitude, rec.CheckInLongitude, rec.CheckInMethod = stamp(punch)
	rec.Status = &status
	rec.UpdatedAt = r.store.clock.Now()
	r.store.st.attendance[id] = rec
	return true, nil
}

func (r *attendanceRepositoryImpl) RecordCheckOut(ctx context.Context, id int64, punch attendance.Punch) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	rec, ok := r.store.st.attendance[id]
	if !ok || rec.CheckOutTime != nil {
		return false, nil
	}
	rec.CheckOutTime, rec.CheckOutLatitude, rec.CheckOutLongitude, rec.CheckOutMethod = stamp(punch)
	rec.UpdatedAt = r.store.clock.Now()
	r.store.st.attendance[id] = rec
	return true, nil
}

func stamp(p attendance.Punch) (*time.Time, *float64, *float64, *attendance.Method) {
	t, lat, lon, m := p.Time, p.Latitude, p.Longitude, p.Method
	return &t, &lat, &lon, &m
}

func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var out []attendance.Attendance
	for _, rec := range r.store.st.attendance {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b attendance.Attendance) int { return b.Date.Compare(a.Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *attendanceRepositoryImpl) ListByDateRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var out []attendance.Attendance
	for _, rec := range r.store.st.attendance {
		if !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b attendance.Attendance) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.EmployeeID, b.EmployeeID)
	})
	return out, nil
}

func (r *attendanceRepositoryImpl) ListCheckedInEmployeeIDs(ctx context.Context, date time.Time) ([]int64, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var ids []int64
	for _, rec := range r.store.st.attendance {
		if rec.Date.Equal(date) && rec.CheckInTime != nil {
			ids = append(ids, rec.EmployeeID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *attendanceRepositoryImpl) UpdateTimes(ctx context.Context, id int64, checkIn, checkOut *time.Time, status *attendance.Status) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	rec, ok := r.store.st.attendance[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	rec.CheckInTime = checkIn
	rec.CheckOutTime = checkOut
	rec.Status = status
	rec.UpdatedAt = r.store.clock.Now()
	r.store.st.attendance[id] = rec
	return nil
}

func (r *attendanceRepositoryImpl) ClearCheckOut(ctx context.Context, id int64) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	rec, ok := r.store.st.attendance[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	rec.CheckOutTime = nil
	rec.CheckOutLatitude = nil
	rec.CheckOutLongitude = nil
	rec.CheckOutMethod = nil
	rec.UpdatedAt = r.store.clock.Now()
	r.store.st.attendance[id] = rec
	return nil
}

type modificationRepositoryImpl struct {
	store *Store
}

func NewModificationRepository(store *Store) attendance.ModificationRepository {
	return &modificationRepositoryImpl{store: store}
}

func (r *modificationRepositoryImpl) Create(ctx context.Context, mod attendance.AttendanceModification) (attendance.AttendanceModification, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	mod.ID = r.store.nextID()
	mod.CreatedAt = r.store.clock.Now()
	r.store.st.modifications[mod.ID] = mod
	return mod, nil
}

func (r *modificationRepositoryImpl) ListByAttendanceID(ctx context.Context, attendanceID int64) ([]attendance.AttendanceModification, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var out []attendance.AttendanceModification
	for _, m := range r.store.st.modifications {
		if m.AttendanceID == attendanceID {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b attendance.AttendanceModification) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

type locationRepositoryImpl struct {
	store *Store
}

func NewLocationRepository(store *Store) attendance.LocationRepository {
	return &locationRepositoryImpl{store: store}
}

func (r *locationRepositoryImpl) Create(ctx context.Context, ping attendance.LocationPing) (attendance.LocationPing, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	ping.ID = r.store.nextID()
	r.store.st.pings[ping.ID] = ping
	return ping, nil
}

func (r *locationRepositoryImpl) LatestSince(ctx context.Context, employeeID int64, since time.Time) (*attendance.LocationPing, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var latest *attendance.LocationPing
	for _, p := range r.store.st.pings {
		if p.EmployeeID != employeeID || p.RecordedAt.Before(since) {
			continue
		}
		if latest == nil || p.RecordedAt.After(latest.RecordedAt) ||
			(p.RecordedAt.Equal(latest.RecordedAt) && p.ID > latest.ID) {
			found := p
			latest = &found
		}
	}
	return latest, nil
}

type workSettingsRepositoryImpl struct {
	store *Store
}

func NewWorkSettingsRepository(store *Store) attendance.WorkSettingsRepository {
	return &workSettingsRepositoryImpl{store: store}
}

func (r *workSettingsRepositoryImpl) Get(ctx context.Context) (*attendance.WorkSettings, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.store.st.settings == nil {
		return nil, nil
	}
	ws := *r.store.st.settings
	return &ws, nil
}
