package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

// CorrectionServiceImpl applies administrator corrections. Every change writes its
// audit row in the same transaction as the record update.
type CorrectionServiceImpl struct {
	txr           database.Transactor
	employees     employee.EmployeeRepository
	records       attendance.AttendanceRepository
	modifications attendance.ModificationRepository
	settings      *SettingsProvider
	clock         clock.Clock
}

func NewCorrectionService(
	txr database.Transactor,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	modificationRepo attendance.ModificationRepository,
	settings *SettingsProvider,
	clk clock.Clock,
) attendance.CorrectionService {
	return &CorrectionServiceImpl{
		txr:           txr,
		employees:     employeeRepo,
		records:       attendanceRepo,
		modifications: modificationRepo,
		settings:      settings,
		clock:         clk,
	}
}

// Modify implements attendance.CorrectionService.
func (s *CorrectionServiceImpl) Modify(ctx context.Context, req attendance.ModifyAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	loc := s.clock.Location()
	var updated attendance.Attendance
	err := s.txr.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.records.GetByID(ctx, req.AttendanceID)
		if err != nil {
			return err
		}

		newIn := rec.CheckInTime
		if req.CheckInTime != nil {
			t := req.CheckInTime.In(loc)
			if !clock.DateOf(t).Equal(rec.Date) {
				return attendance.ErrCheckInOffRecordDate
			}
			newIn = &t
		}
		newOut := rec.CheckOutTime
		if req.CheckOutTime != nil {
			t := req.CheckOutTime.In(loc)
			newOut = &t
		}

		if newIn == nil {
			return attendance.ErrCheckInRequired
		}
		if newOut != nil && newOut.Before(*newIn) {
			return attendance.ErrCheckOutBeforeCheckIn
		}

		status := rec.Status
		if req.CheckInTime != nil {
			derived, err := s.statusFor(ctx, *newIn)
			if err != nil {
				return err
			}
			status = &derived
		}

		if _, err := s.modifications.Create(ctx, attendance.AttendanceModification{
			AttendanceID:         rec.ID,
			ModifiedBy:           req.ModifiedBy,
			Type:                 attendance.ModificationEdit,
			PreviousCheckInTime:  rec.CheckInTime,
			PreviousCheckOutTime: rec.CheckOutTime,
			NewCheckInTime:       newIn,
			NewCheckOutTime:      newOut,
			Reason:               req.Reason,
		}); err != nil {
			return fmt.Errorf("failed to write modification: %w", err)
		}

		if err := s.records.UpdateTimes(ctx, rec.ID, newIn, newOut, status); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		updated, err = s.records.GetByID(ctx, rec.ID)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance modified", "record_id", updated.ID, "modified_by", req.ModifiedBy)
	return toResponse(updated, loc), nil
}

// AddManual implements attendance.CorrectionService.
func (s *CorrectionServiceImpl) AddManual(ctx context.Context, req attendance.AddManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := employee.Resolve(ctx, s.employees, req.Ref())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	loc := s.clock.Location()
	in := req.CheckInTime.In(loc)
	date := clock.DateOf(in)

	var created attendance.Attendance
	err = s.txr.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.records.GetByEmployeeAndDateForUpdate(ctx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("failed to load record: %w", err)
		}
		if existing != nil {
			return attendance.ErrAttendanceExists
		}

		status, err := s.statusFor(ctx, in)
		if err != nil {
			return err
		}

		manual := attendance.MethodManual
		rec := attendance.Attendance{
			EmployeeID:    emp.ID,
			Date:          date,
			CheckInTime:   &in,
			CheckInMethod: &manual,
			Status:        &status,
		}
		if req.CheckOutTime != nil {
			out := req.CheckOutTime.In(loc)
			rec.CheckOutTime = &out
			rec.CheckOutMethod = &manual
		}

		created, err = s.records.Create(ctx, rec)
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.ErrAttendanceExists
		}
		if err != nil {
			return fmt.Errorf("failed to create attendance: %w", err)
		}

		if _, err := s.modifications.Create(ctx, attendance.AttendanceModification{
			AttendanceID:    created.ID,
			ModifiedBy:      req.ModifiedBy,
			Type:            attendance.ModificationAdd,
			NewCheckInTime:  created.CheckInTime,
			NewCheckOutTime: created.CheckOutTime,
			Reason:          req.Reason,
		}); err != nil {
			return fmt.Errorf("failed to write modification: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("manual attendance added", "record_id", created.ID, "employee_id", emp.ID, "modified_by", req.ModifiedBy)
	return toResponse(created, loc), nil
}

// ResetCheckout implements attendance.CorrectionService.
func (s *CorrectionServiceImpl) ResetCheckout(ctx context.Context, req attendance.ResetCheckoutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var updated attendance.Attendance
	err := s.txr.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.records.GetByID(ctx, req.AttendanceID)
		if err != nil {
			return err
		}
		if rec.CheckOutTime == nil {
			return attendance.ErrNotCheckedOut
		}

		if _, err := s.modifications.Create(ctx, attendance.AttendanceModification{
			AttendanceID:         rec.ID,
			ModifiedBy:           req.ModifiedBy,
			Type:                 attendance.ModificationReset,
			PreviousCheckInTime:  rec.CheckInTime,
			PreviousCheckOutTime: rec.CheckOutTime,
			NewCheckInTime:       rec.CheckInTime,
			Reason:               req.Reason,
		}); err != nil {
			return fmt.Errorf("failed to write modification: %w", err)
		}

		if err := s.records.ClearCheckOut(ctx, rec.ID); err != nil {
			return fmt.Errorf("failed to clear check-out: %w", err)
		}

		updated, err = s.records.GetByID(ctx, rec.ID)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance check-out reset", "record_id", updated.ID, "modified_by", req.ModifiedBy)
	return toResponse(updated, s.clock.Location()), nil
}

// ListModifications implements attendance.CorrectionService.
func (s *CorrectionServiceImpl) ListModifications(ctx context.Context, attendanceID int64) ([]attendance.ModificationResponse, error) {
	if _, err := s.records.GetByID(ctx, attendanceID); err != nil {
		return nil, err
	}

	mods, err := s.modifications.ListByAttendanceID(ctx, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modifications: %w", err)
	}

	out := make([]attendance.ModificationResponse, 0, len(mods))
	for _, m := range mods {
		out = append(out, toModificationResponse(m))
	}
	return out, nil
}

func (s *CorrectionServiceImpl) statusFor(ctx context.Context, checkIn time.Time) (attendance.Status, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return "", err
	}
	return settings.StatusAt(checkIn.In(s.clock.Location()))
}
