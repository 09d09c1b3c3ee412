package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Attendance   AttendanceHandler
	FieldTask    FieldTaskHandler
	Leave        LeaveHandler
	WorkZone     WorkZoneHandler
	Device       DeviceHandler
	Notification NotificationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource clients authenticate with the short-lived token in the query
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/location", h.Attendance.UpdateLocation)
				r.Get("/today", h.Attendance.Today)
				r.Get("/history", h.Attendance.History)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionAttendanceViewAll))
					r.Get("/absentees", h.Attendance.Absentees)
					r.Get("/export", h.Attendance.Export)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionAttendanceCorrect))
					r.Post("/manual", h.Attendance.AddManual)
					r.Put("/{id}", h.Attendance.Modify)
					r.Post("/{id}/reset-checkout", h.Attendance.ResetCheckout)
					r.Get("/{id}/modifications", h.Attendance.Modifications)
				})
			})

			r.Route("/field-tasks", func(r chi.Router) {
				r.Post("/", h.FieldTask.Toggle)
				r.Get("/", h.FieldTask.List)
				r.Get("/active", h.FieldTask.Active)
				r.Post("/cancel", h.FieldTask.Cancel)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/balance", h.Leave.GetBalance)
				r.Route("/requests", func(r chi.Router) {
					r.Post("/", h.Leave.CreateRequest)
					r.Get("/my", h.Leave.GetMyRequests)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(employee.PermissionLeaveApprove))
						r.Get("/pending", h.Leave.ListPending)
						r.Post("/{id}/decision", h.Leave.Decide)
					})
				})
			})

			r.Route("/employees/{id}/device", func(r chi.Router) {
				r.Get("/check", h.Device.Check)
				r.With(middleware.RequirePermission(employee.PermissionDeviceReset)).
					Post("/reset", h.Device.Reset)
			})

			r.Route("/work-zones", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermissionWorkZoneManage))
				r.Get("/", h.WorkZone.List)
				r.Post("/", h.WorkZone.Create)
				r.Get("/{id}", h.WorkZone.Get)
				r.Put("/{id}", h.WorkZone.Update)
				r.Delete("/{id}", h.WorkZone.Delete)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermissionNotificationView))
				r.Get("/", h.Notification.List)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/stream-token", h.Notification.GetSSEToken)
			})
		})
	})

	return r
}
