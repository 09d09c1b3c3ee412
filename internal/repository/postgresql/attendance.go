package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date,
	check_in_time, check_in_latitude, check_in_longitude, check_in_method,
	check_out_time, check_out_latitude, check_out_longitude, check_out_method,
	status, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&att.CheckInTime, &att.CheckInLatitude, &att.CheckInLongitude, &att.CheckInMethod,
		&att.CheckOutTime, &att.CheckOutLatitude, &att.CheckOutLongitude, &att.CheckOutMethod,
		&att.Status, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id int64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE id = $1`, attendanceColumns)
	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Attendance, error) {
	return a.getByDay(ctx, employeeID, date, "")
}

// GetByEmployeeAndDateForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Attendance, error) {
	return a.getByDay(ctx, employeeID, date, "FOR UPDATE")
}

func (a *attendanceRepository) getByDay(ctx context.Context, employeeID int64, date time.Time, lock string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE employee_id = $1 AND date = $2 %s`, attendanceColumns, lock)
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for date: %w", err)
	}
	return &att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		INSERT INTO attendances (
			employee_id, date,
			check_in_time, check_in_latitude, check_in_longitude, check_in_method,
			check_out_time, check_out_latitude, check_out_longitude, check_out_method,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s
	`, attendanceColumns)

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.EmployeeID, record.Date,
		record.CheckInTime, record.CheckInLatitude, record.CheckInLongitude, record.CheckInMethod,
		record.CheckOutTime, record.CheckOutLatitude, record.CheckOutLongitude, record.CheckOutMethod,
		record.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// RecordCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckIn(ctx context.Context, id int64, punch attendance.Punch, status attendance.Status) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_time = $1, check_in_latitude = $2, check_in_longitude = $3, check_in_method = $4,
			status = $5, updated_at = NOW()
		WHERE id = $6 AND check_in_time IS NULL
	`
	tag, err := q.Exec(ctx, query, punch.Time, punch.Latitude, punch.Longitude, punch.Method, status, id)
	if err != nil {
		return false, fmt.Errorf("failed to record check-in: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, id int64, punch attendance.Punch) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $1, check_out_latitude = $2, check_out_longitude = $3, check_out_method = $4,
			updated_at = NOW()
		WHERE id = $5 AND check_out_time IS NULL
	`
	tag, err := q.Exec(ctx, query, punch.Time, punch.Latitude, punch.Longitude, punch.Method, id)
	if err != nil {
		return false, fmt.Errorf("failed to record check-out: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE employee_id = $1 ORDER BY date DESC LIMIT $2`, attendanceColumns)
	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}
	return collectAttendance(rows)
}

// ListByDateRange implements attendance.AttendanceRepository. Both ends are inclusive.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s FROM attendances
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, employee_id
	`, attendanceColumns)
	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date range: %w", err)
	}
	return collectAttendance(rows)
}

// ListCheckedInEmployeeIDs implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListCheckedInEmployeeIDs(ctx context.Context, date time.Time) ([]int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id FROM attendances
		WHERE date = $1 AND check_in_time IS NOT NULL
		ORDER BY employee_id
	`
	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list checked-in employees: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateTimes implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateTimes(ctx context.Context, id int64, checkIn, checkOut *time.Time, status *attendance.Status) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_time = $1, check_out_time = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, checkIn, checkOut, status, id)
	if err != nil {
		return fmt.Errorf("failed to update attendance times: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ClearCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) ClearCheckOut(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = NULL, check_out_latitude = NULL, check_out_longitude = NULL, check_out_method = NULL,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

type modificationRepository struct {
	db *database.DB
}

func NewModificationRepository(db *database.DB) attendance.ModificationRepository {
	return &modificationRepository{db: db}
}

// Create implements attendance.ModificationRepository.
func (m *modificationRepository) Create(ctx context.Context, mod attendance.AttendanceModification) (attendance.AttendanceModification, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		INSERT INTO attendance_modifications (
			attendance_id, modified_by, modification_type,
			previous_check_in_time, previous_check_out_time, new_check_in_time, new_check_out_time, reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		mod.AttendanceID, mod.ModifiedBy, mod.Type,
		mod.PreviousCheckInTime, mod.PreviousCheckOutTime, mod.NewCheckInTime, mod.NewCheckOutTime, mod.Reason,
	).Scan(&mod.ID, &mod.CreatedAt)
	if err != nil {
		return attendance.AttendanceModification{}, fmt.Errorf("failed to create attendance modification: %w", err)
	}
	return mod, nil
}

// ListByAttendanceID implements attendance.ModificationRepository.
func (m *modificationRepository) ListByAttendanceID(ctx context.Context, attendanceID int64) ([]attendance.AttendanceModification, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT id, attendance_id, modified_by, modification_type,
			previous_check_in_time, previous_check_out_time, new_check_in_time, new_check_out_time,
			reason, created_at
		FROM attendance_modifications
		WHERE attendance_id = $1
		ORDER BY id
	`
	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance modifications: %w", err)
	}
	defer rows.Close()

	var mods []attendance.AttendanceModification
	for rows.Next() {
		var mod attendance.AttendanceModification
		err := rows.Scan(
			&mod.ID, &mod.AttendanceID, &mod.ModifiedBy, &mod.Type,
			&mod.PreviousCheckInTime, &mod.PreviousCheckOutTime, &mod.NewCheckInTime, &mod.NewCheckOutTime,
			&mod.Reason, &mod.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance modification: %w", err)
		}
		mods = append(mods, mod)
	}
	return mods, rows.Err()
}

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) attendance.LocationRepository {
	return &locationRepository{db: db}
}

// Create implements attendance.LocationRepository.
func (l *locationRepository) Create(ctx context.Context, ping attendance.LocationPing) (attendance.LocationPing, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO location_pings (employee_id, latitude, longitude, accuracy, inside_zone, zone_name, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := q.QueryRow(ctx, query,
		ping.EmployeeID, ping.Latitude, ping.Longitude, ping.Accuracy, ping.InsideZone, ping.ZoneName, ping.RecordedAt,
	).Scan(&ping.ID)
	if err != nil {
		return attendance.LocationPing{}, fmt.Errorf("failed to store location ping: %w", err)
	}
	return ping, nil
}

// LatestSince implements attendance.LocationRepository.
func (l *locationRepository) LatestSince(ctx context.Context, employeeID int64, since time.Time) (*attendance.LocationPing, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, employee_id, latitude, longitude, accuracy, inside_zone, zone_name, recorded_at
		FROM location_pings
		WHERE employee_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`
	var ping attendance.LocationPing
	err := q.QueryRow(ctx, query, employeeID, since).Scan(
		&ping.ID, &ping.EmployeeID, &ping.Latitude, &ping.Longitude, &ping.Accuracy,
		&ping.InsideZone, &ping.ZoneName, &ping.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest location ping: %w", err)
	}
	return &ping, nil
}

type workSettingsRepository struct {
	db *database.DB
}

func NewWorkSettingsRepository(db *database.DB) attendance.WorkSettingsRepository {
	return &workSettingsRepository{db: db}
}

// Get implements attendance.WorkSettingsRepository.
func (w *workSettingsRepository) Get(ctx context.Context) (*attendance.WorkSettings, error) {
	q := GetQuerier(ctx, w.db)

	query := `SELECT work_start_time, work_end_time, late_threshold_minutes FROM work_settings WHERE id = 1`

	var ws attendance.WorkSettings
	err := q.QueryRow(ctx, query).Scan(&ws.WorkStartTime, &ws.WorkEndTime, &ws.LateThresholdMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work settings: %w", err)
	}
	return &ws, nil
}
