package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// session returns the caller identity; AuthRequired guarantees it on protected routes.
func session(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return s, ok
}

// viewRef resolves whose records a read endpoint shows. Callers allowed to see everyone may
// name an employee with ?employee_code= or ?employee_id=; everyone else sees their own.
func viewRef(r *http.Request, s jwt.Claims, viewAll employee.Permission) employee.Ref {
	if employee.HasPermission(s.Role, viewAll) {
		q := r.URL.Query()
		if code := strings.TrimSpace(q.Get("employee_code")); code != "" {
			return employee.Ref{Code: code}
		}
		if id, err := strconv.ParseInt(q.Get("employee_id"), 10, 64); err == nil && id > 0 {
			return employee.Ref{ID: id}
		}
	}
	return employee.Ref{ID: s.EmployeeID}
}

// actAs resolves whose record a write touches. An empty body code means the session
// employee; naming someone else needs the kiosk permission.
func actAs(s jwt.Claims, code string, employeeID *int64) error {
	if strings.TrimSpace(code) == "" {
		*employeeID = s.EmployeeID
		return nil
	}
	if !employee.HasPermission(s.Role, employee.PermissionAttendanceKiosk) {
		return employee.ErrInsufficientRole
	}
	return nil
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+key, nil)
		return 0, false
	}
	return id, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
