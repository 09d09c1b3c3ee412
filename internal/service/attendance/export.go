package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
)

// Export implements attendance.AttendanceService. It returns an XLSX workbook.
func (s *AttendanceServiceImpl) Export(ctx context.Context, req attendance.DateRangeRequest) ([]byte, error) {
	start, end, err := req.Parse()
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	type person struct{ code, name string }
	people := make(map[int64]person, len(employees))
	for _, e := range employees {
		people[e.ID] = person{code: e.EmployeeCode, name: e.FullName}
	}

	rows := make([]export.AttendanceRow, 0, len(records))
	for _, rec := range records {
		p := people[rec.EmployeeID]
		row := export.AttendanceRow{
			Date:           rec.Date,
			EmployeeCode:   p.code,
			FullName:       p.name,
			CheckIn:        rec.CheckInTime,
			CheckOut:       rec.CheckOutTime,
			WorkingMinutes: workingMinutes(rec),
		}
		if rec.CheckInMethod != nil {
			row.CheckInMethod = string(*rec.CheckInMethod)
		}
		if rec.CheckOutMethod != nil {
			row.CheckOutMethod = string(*rec.CheckOutMethod)
		}
		if rec.Status != nil {
			row.Status = string(*rec.Status)
		}
		rows = append(rows, row)
	}

	data, err := export.AttendanceWorkbook(rows, s.clock.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance export: %w", err)
	}
	slog.Info("attendance exported", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"), "rows", len(rows))
	return data, nil
}
