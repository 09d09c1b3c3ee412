package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAttendanceWorkbook(t *testing.T) {
	loc := time.FixedZone("UTC+07:00", 7*3600)
	in := time.Date(2025, 3, 10, 1, 5, 0, 0, time.UTC) // 08:05 local
	out := in.Add(8 * time.Hour)
	minutes := 480

	data, err := AttendanceWorkbook([]AttendanceRow{
		{
			Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), EmployeeCode: "EMP-1", FullName: "Sari",
			CheckIn: &in, CheckInMethod: "code", CheckOut: &out, CheckOutMethod: "code",
			WorkingMinutes: &minutes, Status: "present",
		},
		{
			Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), EmployeeCode: "EMP-2", FullName: "Budi",
			CheckIn: &in, CheckInMethod: "face", Status: "late",
		},
	}, loc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, AttendanceSheet, f.GetSheetName(0))

	rows, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Employee Code", rows[0][1])
	assert.Equal(t, []string{"2025-03-10", "EMP-1", "Sari", "08:05:00", "code", "16:05:00", "code", "480", "present"}, rows[1])
	assert.Equal(t, "EMP-2", rows[2][1])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "late", rows[2][8])
}

func TestAttendanceWorkbook_Empty(t *testing.T) {
	data, err := AttendanceWorkbook(nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
