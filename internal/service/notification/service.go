package notification

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	clock  clock.Clock
	config Config

	queue   chan notification.CreateNotificationRequest
	wg      sync.WaitGroup
	stopCh  chan struct{}
	stopped atomic.Bool
	once    sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, clk clock.Clock, cfg Config) notification.Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		clock:  clk,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

// worker batches queued notifications and flushes them on size or interval
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.persistAndPublish(id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what is still queued before exiting.
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) persistAndPublish(workerID int, batch []notification.CreateNotificationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := s.clock.Now()
	notifications := make([]notification.Notification, len(batch))
	for i, req := range batch {
		notifications[i] = notification.Notification{
			ID:         uuid.New().String(),
			Audience:   req.Audience,
			BranchID:   req.BranchID,
			EmployeeID: req.EmployeeID,
			Type:       req.Type,
			Title:      req.Title,
			Message:    req.Message,
			Data:       req.Data,
			CreatedAt:  now,
		}
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("notification batch insert failed", "worker", workerID, "count", len(notifications), "error", err)
		return
	}
	slog.Debug("notifications inserted", "worker", workerID, "count", len(notifications))

	for _, n := range notifications {
		s.hub.Publish(sse.Event{
			Topic: n.Topic(),
			Event: "notification",
			Data:  notification.ToResponse(n),
		})
	}
}

// Queue queues a notification for async processing
func (s *service) Queue(ctx context.Context, req notification.CreateNotificationRequest) error {
	if req.Audience == notification.AudienceBranch && req.BranchID == nil {
		return notification.ErrBranchRequired
	}
	if s.stopped.Load() {
		return notification.ErrServiceStopped
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return notification.ErrQueueFull
	}
}

func (s *service) NotifyEmployeeEvent(ctx context.Context, ev notification.EmployeeEvent) {
	employeeID := ev.EmployeeID
	reqs := []notification.CreateNotificationRequest{{
		Audience:   notification.AudienceAdmin,
		EmployeeID: &employeeID,
		Type:       ev.Type,
		Title:      ev.Title,
		Message:    ev.Message,
		Data:       ev.Data,
	}}
	if ev.BranchID != nil {
		reqs = append(reqs, notification.CreateNotificationRequest{
			Audience:   notification.AudienceBranch,
			BranchID:   ev.BranchID,
			EmployeeID: &employeeID,
			Type:       ev.Type,
			Title:      ev.Title,
			Message:    ev.Message,
			Data:       ev.Data,
		})
	}

	for _, req := range reqs {
		// The primary operation has already succeeded; a lost notification must not undo it.
		if err := s.Queue(context.WithoutCancel(ctx), req); err != nil {
			slog.Warn("failed to queue notification",
				"type", req.Type, "audience", req.Audience, "employee_id", employeeID, "error", err)
		}
	}
}

// List retrieves paginated notifications for an audience feed
func (s *service) List(ctx context.Context, req notification.ListNotificationsRequest) (*notification.NotificationListResponse, error) {
	if req.Audience == notification.AudienceBranch && req.BranchID == nil {
		return nil, notification.ErrBranchRequired
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	items, total, err := s.repo.List(ctx, req.Audience, req.BranchID, req.Page, req.PageSize, req.UnreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.UnreadCount(ctx, req.Audience, req.BranchID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(items))
	for i, n := range items {
		responses[i] = notification.ToResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}, nil
}

// MarkAsRead marks notifications of the caller's feed as read
func (s *service) MarkAsRead(ctx context.Context, audience notification.Audience, branchID *int64, req notification.MarkAsReadRequest) error {
	if err := validator.Struct(req); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, audience, branchID, s.clock.Now())
}

// Subscribe creates an SSE subscription on topics
func (s *service) Subscribe(ctx context.Context, topics ...string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(topics...)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.once.Do(func() {
		s.stopped.Store(true)
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
