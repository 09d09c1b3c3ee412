package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type DeviceHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	guard device.Guard
}

func NewDeviceHandler(guard device.Guard) DeviceHandler {
	return &deviceHandlerImpl{guard: guard}
}

// Check reports how ?device_id= relates to the employee's binding without binding it.
// Employees without the view-all permission may only check themselves.
func (h *deviceHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if id != s.EmployeeID && !employee.HasPermission(s.Role, employee.PermissionAttendanceViewAll) {
		response.Forbidden(w, "You can only check your own device")
		return
	}

	result, err := h.guard.CheckDevice(r.Context(), id, r.URL.Query().Get("device_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *deviceHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.guard.ResetDevice(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device binding cleared", nil)
}
