package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

// RequirePermission lets the request through only when the session role grants permission.
// It must run after AuthRequired.
func RequirePermission(permission employee.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			if !employee.HasPermission(session.Role, permission) {
				response.Forbidden(w, "Role "+string(session.Role)+" lacks permission "+string(permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
