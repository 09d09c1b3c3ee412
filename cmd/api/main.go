package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/fieldtask"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	deviceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/device"
	fieldTaskService "github.com/cmlabs-hris/attendance-backend-go/internal/service/fieldtask"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	workZoneService "github.com/cmlabs-hris/attendance-backend-go/internal/service/workzone"
)

const version = "v1.0.0"

// repositories is the storage backend chosen by STORAGE_DRIVER.
type repositories struct {
	txr           database.Transactor
	employees     employee.EmployeeRepository
	attendance    attendance.AttendanceRepository
	modifications attendance.ModificationRepository
	locations     attendance.LocationRepository
	settings      attendance.WorkSettingsRepository
	zones         workzone.WorkZoneRepository
	tasks         fieldtask.FieldTaskRepository
	requests      leave.LeaveRequestRepository
	balances      leave.LeaveBalanceRepository
	notifications notification.Repository
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})))

	clk := clock.NewSystem(cfg.Location())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos repositories
	var memStore *memory.Store
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		repos, err = postgresRepositories(ctx, cfg)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
	case config.DriverMemory:
		memStore = memory.NewStore(clk)
		repos = memoryRepositories(memStore)
	}
	defer repos.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	notifier := notificationService.NewNotificationService(repos.notifications, sse.NewHub(), clk, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})

	settings := attendanceService.NewSettingsProvider(repos.settings, attendance.WorkSettings{
		WorkStartTime:        cfg.Work.StartTime,
		WorkEndTime:          cfg.Work.EndTime,
		LateThresholdMinutes: cfg.Work.LateThresholdMinutes,
	})
	guard := deviceService.NewGuard(repos.employees, notifier, clk)

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.txr,
		repos.employees,
		repos.attendance,
		repos.locations,
		settings,
		repos.zones,
		guard,
		notifier,
		clk,
	)
	correctionSvc := attendanceService.NewCorrectionService(
		repos.txr,
		repos.employees,
		repos.attendance,
		repos.modifications,
		settings,
		clk,
	)
	fieldTaskSvc := fieldTaskService.NewFieldTaskService(repos.txr, repos.employees, repos.tasks, guard, clk)
	leaveSvc := leaveService.NewLeaveService(
		repos.txr,
		repos.employees,
		repos.requests,
		leaveService.NewQuotaService(repos.balances),
		notifier,
		clk,
	)
	workZoneSvc := workZoneService.NewWorkZoneService(repos.txr, repos.zones)

	if memStore != nil {
		if err := seedDemo(ctx, memStore, workZoneSvc, JWTService); err != nil {
			slog.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	scheduler := cron.NewScheduler()
	attendanceJobs, err := cron.NewAttendanceJobs(attendanceSvc, notifier, clk, cfg.Work.EndTime)
	if err != nil {
		slog.Error("failed to configure attendance jobs", "error", err)
		os.Exit(1)
	}
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		LogLevel:       parseLevel(cfg.App.LogLevel),
	}, JWTService, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, correctionSvc),
		FieldTask:    appHTTP.NewFieldTaskHandler(fieldTaskSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		WorkZone:     appHTTP.NewWorkZoneHandler(workZoneSvc),
		Device:       appHTTP.NewDeviceHandler(guard),
		Notification: appHTTP.NewNotificationHandler(notifier, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", server.Addr, "storage", cfg.Database.Driver, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
	notifier.Stop()
}

func postgresRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return repositories{}, err
	}
	return repositories{
		txr:           postgresql.NewTransactor(db),
		employees:     postgresql.NewEmployeeRepository(db),
		attendance:    postgresql.NewAttendanceRepository(db),
		modifications: postgresql.NewModificationRepository(db),
		locations:     postgresql.NewLocationRepository(db),
		settings:      postgresql.NewWorkSettingsRepository(db),
		zones:         postgresql.NewWorkZoneRepository(db),
		tasks:         postgresql.NewFieldTaskRepository(db),
		requests:      postgresql.NewLeaveRequestRepository(db),
		balances:      postgresql.NewLeaveBalanceRepository(db),
		notifications: postgresql.NewNotificationRepository(db),
		close:         db.Close,
	}, nil
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		txr:           memory.NewTransactor(store),
		employees:     memory.NewEmployeeRepository(store),
		attendance:    memory.NewAttendanceRepository(store),
		modifications: memory.NewModificationRepository(store),
		locations:     memory.NewLocationRepository(store),
		settings:      memory.NewWorkSettingsRepository(store),
		zones:         memory.NewWorkZoneRepository(store),
		tasks:         memory.NewFieldTaskRepository(store),
		requests:      memory.NewLeaveRequestRepository(store),
		balances:      memory.NewLeaveBalanceRepository(store),
		notifications: memory.NewNotificationRepository(store),
		close:         func() {},
	}
}

// seedDemo fills the memory store with one employee per role and a zone, and logs their tokens.
func seedDemo(ctx context.Context, store *memory.Store, zones workzone.WorkZoneService, JWTService jwt.Service) error {
	branch := int64(1)
	people := []employee.Employee{
		store.AddEmployee(employee.Employee{EmployeeCode: "ADM-001", FullName: "Demo Admin", Role: employee.RoleAdmin}),
		store.AddEmployee(employee.Employee{EmployeeCode: "MGR-001", FullName: "Demo Manager", Role: employee.RoleBranchManager, BranchID: &branch}),
		store.AddEmployee(employee.Employee{EmployeeCode: "EMP-001", FullName: "Demo Employee", Role: employee.RoleEmployee, BranchID: &branch}),
	}

	lat, lon := -6.175392, 106.827153
	if _, err := zones.Create(ctx, workzone.CreateWorkZoneRequest{
		Name: "Head Office", Latitude: &lat, Longitude: &lon, RadiusMeters: 150,
	}); err != nil {
		return fmt.Errorf("failed to create demo zone: %w", err)
	}

	for _, p := range people {
		token, _, err := JWTService.GenerateAccessToken(jwt.Claims{EmployeeID: p.ID, Role: p.Role, BranchID: p.BranchID})
		if err != nil {
			return fmt.Errorf("failed to issue demo token: %w", err)
		}
		slog.Info("demo session", "employee_code", p.EmployeeCode, "role", p.Role, "token", token)
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
