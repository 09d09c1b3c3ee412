package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// formatTime renders t as RFC3339 in loc.
func formatTime(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

func workingMinutes(rec attendance.Attendance) *int {
	if rec.CheckInTime == nil || rec.CheckOutTime == nil {
		return nil
	}
	m := int(rec.CheckOutTime.Sub(*rec.CheckInTime).Minutes())
	return &m
}

func toResponse(rec attendance.Attendance, loc *time.Location) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		Date:              rec.Date.Format("2006-01-02"),
		CheckInTime:       formatTime(rec.CheckInTime, loc),
		CheckInLatitude:   rec.CheckInLatitude,
		CheckInLongitude:  rec.CheckInLongitude,
		CheckInMethod:     rec.CheckInMethod,
		CheckOutTime:      formatTime(rec.CheckOutTime, loc),
		CheckOutLatitude:  rec.CheckOutLatitude,
		CheckOutLongitude: rec.CheckOutLongitude,
		CheckOutMethod:    rec.CheckOutMethod,
		WorkingMinutes:    workingMinutes(rec),
		Status:            rec.Status,
	}
}

func toModificationResponse(m attendance.AttendanceModification) attendance.ModificationResponse {
	return attendance.ModificationResponse{
		ID:                   m.ID,
		AttendanceID:         m.AttendanceID,
		ModifiedBy:           m.ModifiedBy,
		Type:                 m.Type,
		PreviousCheckInTime:  m.PreviousCheckInTime,
		PreviousCheckOutTime: m.PreviousCheckOutTime,
		NewCheckInTime:       m.NewCheckInTime,
		NewCheckOutTime:      m.NewCheckOutTime,
		Reason:               m.Reason,
		CreatedAt:            m.CreatedAt,
	}
}
