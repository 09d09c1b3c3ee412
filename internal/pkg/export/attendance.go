package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const AttendanceSheet = "Attendance"

var attendanceHeader = []any{
	"Date", "Employee Code", "Full Name", "Check In", "Check In Method",
	"Check Out", "Check Out Method", "Working Minutes", "Status",
}

// AttendanceRow is one line of the attendance export.
type AttendanceRow struct {
	Date           time.Time
	EmployeeCode   string
	FullName       string
	CheckIn        *time.Time
	CheckInMethod  string
	CheckOut       *time.Time
	CheckOutMethod string
	WorkingMinutes *int
	Status         string
}

// AttendanceWorkbook renders rows as an XLSX workbook. Times are written in loc.
func AttendanceWorkbook(rows []AttendanceRow, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), AttendanceSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(AttendanceSheet, "A1", &attendanceHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(AttendanceSheet, "A1", "I1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{
			r.Date.Format("2006-01-02"),
			r.EmployeeCode,
			r.FullName,
			clockTime(r.CheckIn, loc),
			r.CheckInMethod,
			clockTime(r.CheckOut, loc),
			r.CheckOutMethod,
			intOrBlank(r.WorkingMinutes),
			r.Status,
		}
		if err := f.SetSheetRow(AttendanceSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(AttendanceSheet, "A", "I", 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetPanes(AttendanceSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func clockTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc != nil {
		return t.In(loc).Format("15:04:05")
	}
	return t.Format("15:04:05")
}

func intOrBlank(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
