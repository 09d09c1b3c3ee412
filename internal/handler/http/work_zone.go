package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type WorkZoneHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type workZoneHandlerImpl struct {
	workZoneService workzone.WorkZoneService
}

func NewWorkZoneHandler(workZoneService workzone.WorkZoneService) WorkZoneHandler {
	return &workZoneHandlerImpl{workZoneService: workZoneService}
}

func (h *workZoneHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.workZoneService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *workZoneHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.workZoneService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *workZoneHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req workzone.CreateWorkZoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.workZoneService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Work zone created", result)
}

func (h *workZoneHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req workzone.UpdateWorkZoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.workZoneService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work zone updated", result)
}

func (h *workZoneHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.workZoneService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work zone deleted", nil)
}
