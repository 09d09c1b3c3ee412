package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/fieldtask"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type FieldTaskHandler interface {
	Toggle(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type fieldTaskHandlerImpl struct {
	fieldTaskService fieldtask.FieldTaskService
}

func NewFieldTaskHandler(fieldTaskService fieldtask.FieldTaskService) FieldTaskHandler {
	return &fieldTaskHandlerImpl{fieldTaskService: fieldTaskService}
}

// Toggle starts a field task, or ends the active one when is_return is set.
func (h *fieldTaskHandlerImpl) Toggle(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req fieldtask.ToggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := actAs(s, req.EmployeeCode, &req.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fieldTaskService.Toggle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	switch {
	case req.IsReturn && result.ID == 0:
		response.SuccessWithMessage(w, "No active field task", result)
	case req.IsReturn:
		response.SuccessWithMessage(w, "Field task completed", result)
	default:
		response.Created(w, "Field task started", result)
	}
}

func (h *fieldTaskHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := h.fieldTaskService.Active(r.Context(), viewRef(r, s, employee.PermissionAttendanceViewAll))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *fieldTaskHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := h.fieldTaskService.Cancel(r.Context(), employee.Ref{ID: s.EmployeeID})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.ID == 0 {
		response.SuccessWithMessage(w, "No active field task", result)
		return
	}
	response.SuccessWithMessage(w, "Field task cancelled", result)
}

func (h *fieldTaskHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	ref := viewRef(r, s, employee.PermissionAttendanceViewAll)
	result, err := h.fieldTaskService.List(r.Context(), ref, getIntQueryParam(r, "limit", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
