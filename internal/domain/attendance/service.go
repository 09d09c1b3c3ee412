package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, req PunchRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, req PunchRequest) (CheckOutResponse, error)
	// Today returns nil when the employee has no record today.
	Today(ctx context.Context, ref employee.Ref) (*AttendanceResponse, error)
	History(ctx context.Context, req HistoryRequest) ([]AttendanceResponse, error)
	UpdateLocation(ctx context.Context, req LocationUpdateRequest) (LocationAck, error)
	Absentees(ctx context.Context, date time.Time) ([]AbsenteeResponse, error)
	Export(ctx context.Context, req DateRangeRequest) ([]byte, error)
}

type CorrectionService interface {
	Modify(ctx context.Context, req ModifyAttendanceRequest) (AttendanceResponse, error)
	AddManual(ctx context.Context, req AddManualAttendanceRequest) (AttendanceResponse, error)
	ResetCheckout(ctx context.Context, req ResetCheckoutRequest) (AttendanceResponse, error)
	ListModifications(ctx context.Context, attendanceID int64) ([]ModificationResponse, error)
}
