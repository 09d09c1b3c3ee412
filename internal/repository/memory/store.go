// Package memory keeps every repository in process memory. It backs the
// memory storage driver and the service tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/fieldtask"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type balanceKey struct {
	employeeID int64
	year       int
}

type state struct {
	seq           int64
	employees     map[int64]employee.Employee
	zones         map[int64]workzone.WorkZone
	attendance    map[int64]attendance.Attendance
	modifications map[int64]attendance.AttendanceModification
	pings         map[int64]attendance.LocationPing
	settings      *attendance.WorkSettings
	tasks         map[int64]fieldtask.FieldTask
	requests      map[int64]leave.LeaveRequest
	balances      map[balanceKey]leave.LeaveBalance
	notifications map[string]notification.Notification
}

func (s *state) clone() *state {
	c := *s
	c.employees = maps.Clone(s.employees)
	c.zones = maps.Clone(s.zones)
	c.attendance = maps.Clone(s.attendance)
	c.modifications = maps.Clone(s.modifications)
	c.pings = maps.Clone(s.pings)
	c.tasks = maps.Clone(s.tasks)
	c.requests = maps.Clone(s.requests)
	c.balances = maps.Clone(s.balances)
	c.notifications = maps.Clone(s.notifications)
	return &c
}

// Store is the shared state behind all memory repositories. Transactions are
// serialized and roll back by restoring a snapshot taken at begin.
type Store struct {
	txMu  sync.Mutex
	mu    sync.Mutex
	st    *state
	clock clock.Clock
}

func NewStore(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.NewSystem(nil)
	}
	return &Store{
		clock: clk,
		st: &state{
			employees:     make(map[int64]employee.Employee),
			zones:         make(map[int64]workzone.WorkZone),
			attendance:    make(map[int64]attendance.Attendance),
			modifications: make(map[int64]attendance.AttendanceModification),
			pings:         make(map[int64]attendance.LocationPing),
			tasks:         make(map[int64]fieldtask.FieldTask),
			requests:      make(map[int64]leave.LeaveRequest),
			balances:      make(map[balanceKey]leave.LeaveBalance),
			notifications: make(map[string]notification.Notification),
		},
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// lock guards one repository call. Outside a transaction it also waits for any running transaction.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

type transactor struct {
	store *Store
}

func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s := t.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func (s *Store) restore(snapshot *state) {
	s.mu.Lock()
	s.st = snapshot
	s.mu.Unlock()
}

// AddEmployee seeds an employee and returns it with its assigned id.
func (s *Store) AddEmployee(e employee.Employee) employee.Employee {
	unlock := s.lock(context.Background())
	defer unlock()

	if e.ID == 0 {
		e.ID = s.nextID()
	}
	if e.Status == "" {
		e.Status = employee.StatusActive
	}
	if e.Role == "" {
		e.Role = employee.RoleEmployee
	}
	now := s.clock.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	s.st.employees[e.ID] = e
	return e
}

// SetWorkSettings stores the organization schedule row.
func (s *Store) SetWorkSettings(ws attendance.WorkSettings) {
	unlock := s.lock(context.Background())
	defer unlock()
	s.st.settings = &ws
}

// Notifications returns every stored notification; tests use it to inspect the sink.
func (s *Store) Notifications() []notification.Notification {
	unlock := s.lock(context.Background())
	defer unlock()

	out := make([]notification.Notification, 0, len(s.st.notifications))
	for _, n := range s.st.notifications {
		out = append(out, n)
	}
	return out
}
