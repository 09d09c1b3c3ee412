package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	UpdateLocation(w http.ResponseWriter, r *http.Request)
	Absentees(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	Modify(w http.ResponseWriter, r *http.Request)
	AddManual(w http.ResponseWriter, r *http.Request)
	ResetCheckout(w http.ResponseWriter, r *http.Request)
	Modifications(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	correctionService attendance.CorrectionService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, correctionService attendance.CorrectionService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		correctionService: correctionService,
	}
}

// decodePunch fills a punch request; kiosks name the employee in the body, apps use the session.
func (h *attendanceHandlerImpl) decodePunch(w http.ResponseWriter, r *http.Request) (attendance.PunchRequest, bool) {
	var req attendance.PunchRequest
	s, ok := session(w, r)
	if !ok {
		return req, false
	}
	if !decodeJSON(w, r, &req) {
		return req, false
	}
	if err := actAs(s, req.EmployeeCode, &req.EmployeeID); err != nil {
		response.HandleError(w, err)
		return req, false
	}
	return req, true
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePunch(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePunch(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Today implements AttendanceHandler. A day without a record returns null data.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Today(r.Context(), viewRef(r, s, employee.PermissionAttendanceViewAll))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	req := attendance.HistoryRequest{
		Ref:   viewRef(r, s, employee.PermissionAttendanceViewAll),
		Limit: getIntQueryParam(r, "limit", 0),
	}
	result, err := h.attendanceService.History(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateLocation implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req attendance.LocationUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := actAs(s, req.EmployeeCode, &req.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.UpdateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Absentees implements AttendanceHandler. Without ?date= the organization's today is used.
func (h *attendanceHandlerImpl) Absentees(w http.ResponseWriter, r *http.Request) {
	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.HandleError(w, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}})
			return
		}
		date = parsed
	}

	result, err := h.attendanceService.Absentees(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := attendance.DateRangeRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	body, err := h.attendanceService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", req.StartDate, req.EndDate)
	response.File(w, xlsxContentType, filename, body)
}

// Modify implements AttendanceHandler.
func (h *attendanceHandlerImpl) Modify(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req attendance.ModifyAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.AttendanceID = id
	req.ModifiedBy = s.EmployeeID

	result, err := h.correctionService.Modify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance corrected", result)
}

// AddManual implements AttendanceHandler.
func (h *attendanceHandlerImpl) AddManual(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req attendance.AddManualAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ModifiedBy = s.EmployeeID

	result, err := h.correctionService.AddManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance added", result)
}

// ResetCheckout implements AttendanceHandler.
func (h *attendanceHandlerImpl) ResetCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req attendance.ResetCheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.AttendanceID = id
	req.ModifiedBy = s.EmployeeID

	result, err := h.correctionService.ResetCheckout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out reset", result)
}

// Modifications implements AttendanceHandler.
func (h *attendanceHandlerImpl) Modifications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.correctionService.ListModifications(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
