package notification_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	notificationsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingRepo holds every CreateBatch call until release is closed.
type blockingRepo struct {
	notification.Repository
	release chan struct{}
	mu      sync.Mutex
	stored  int
}

func (r *blockingRepo) CreateBatch(ctx context.Context, ns []notification.Notification) error {
	<-r.release
	r.mu.Lock()
	r.stored += len(ns)
	r.mu.Unlock()
	return nil
}

func adminRequest(title string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		Audience: notification.AudienceAdmin,
		Type:     notification.TypeLateArrival,
		Title:    title,
	}
}

func fixedClock() *clock.Fixed {
	return clock.NewFixed(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
}

func TestQueue_FullQueueDoesNotBlock(t *testing.T) {
	repo := &blockingRepo{release: make(chan struct{})}
	svc := notificationsvc.NewNotificationService(repo, sse.NewHub(), fixedClock(), notificationsvc.Config{
		BatchSize: 1, WorkerCount: 1, QueueSize: 1, FlushInterval: time.Hour,
	})

	accepted := 0
	var err error
	for i := 0; i < 3; i++ {
		if err = svc.Queue(context.Background(), adminRequest("late")); err != nil {
			break
		}
		accepted++
	}
	require.ErrorIs(t, err, notification.ErrQueueFull)
	assert.LessOrEqual(t, accepted, 2)

	close(repo.release)
	svc.Stop()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, accepted, repo.stored)
}

func TestStop_DrainsQueueAndRejectsNewWork(t *testing.T) {
	store := memory.NewStore(fixedClock())
	svc := notificationsvc.NewNotificationService(memory.NewNotificationRepository(store), sse.NewHub(), fixedClock(), notificationsvc.Config{
		BatchSize: 50, FlushInterval: time.Hour,
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.Queue(context.Background(), adminRequest("late")))
	}
	svc.Stop()
	svc.Stop()

	assert.Len(t, store.Notifications(), 10)
	assert.ErrorIs(t, svc.Queue(context.Background(), adminRequest("late")), notification.ErrServiceStopped)
}

func TestQueue_BranchAudienceNeedsBranch(t *testing.T) {
	store := memory.NewStore(fixedClock())
	svc := notificationsvc.NewNotificationService(memory.NewNotificationRepository(store), sse.NewHub(), fixedClock(), notificationsvc.Config{})
	defer svc.Stop()

	err := svc.Queue(context.Background(), notification.CreateNotificationRequest{Audience: notification.AudienceBranch})
	assert.ErrorIs(t, err, notification.ErrBranchRequired)
}

func TestNotifyEmployeeEvent_FansOutAndStreams(t *testing.T) {
	store := memory.NewStore(fixedClock())
	svc := notificationsvc.NewNotificationService(memory.NewNotificationRepository(store), sse.NewHub(), fixedClock(), notificationsvc.Config{
		FlushInterval: 10 * time.Millisecond,
	})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	branch := int64(3)
	adminStream, cleanupAdmin := svc.Subscribe(ctx, notification.TopicFor(notification.AudienceAdmin, nil))
	defer cleanupAdmin()
	branchStream, cleanupBranch := svc.Subscribe(ctx, notification.TopicFor(notification.AudienceBranch, &branch))
	defer cleanupBranch()

	svc.NotifyEmployeeEvent(ctx, notification.EmployeeEvent{
		EmployeeID: 7,
		BranchID:   &branch,
		Type:       notification.TypeLeftZone,
		Title:      "Left work zone",
		Message:    "Sari left the work zone",
	})

	for name, stream := range map[string]<-chan notification.SSEEvent{"admin": adminStream, "branch": branchStream} {
		select {
		case ev := <-stream:
			assert.Equal(t, "notification", ev.Event, name)
			assert.Equal(t, notification.TypeLeftZone, ev.Data.Type, name)
			require.NotNil(t, ev.Data.EmployeeID, name)
			assert.Equal(t, int64(7), *ev.Data.EmployeeID, name)
		case <-time.After(2 * time.Second):
			t.Fatalf("no event on %s stream", name)
		}
	}

	adminFeed, err := svc.List(ctx, notification.ListNotificationsRequest{Audience: notification.AudienceAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, adminFeed.Total)
	assert.Equal(t, 1, adminFeed.UnreadCount)
	assert.Equal(t, 20, adminFeed.PageSize)

	branchFeed, err := svc.List(ctx, notification.ListNotificationsRequest{Audience: notification.AudienceBranch, BranchID: &branch})
	require.NoError(t, err)
	require.Len(t, branchFeed.Notifications, 1)

	// Marking the branch copy read leaves the admin copy unread.
	err = svc.MarkAsRead(ctx, notification.AudienceBranch, &branch, notification.MarkAsReadRequest{
		NotificationIDs: []string{branchFeed.Notifications[0].ID},
	})
	require.NoError(t, err)

	branchFeed, err = svc.List(ctx, notification.ListNotificationsRequest{Audience: notification.AudienceBranch, BranchID: &branch})
	require.NoError(t, err)
	assert.Equal(t, 0, branchFeed.UnreadCount)

	adminFeed, err = svc.List(ctx, notification.ListNotificationsRequest{Audience: notification.AudienceAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, adminFeed.UnreadCount)
}

func TestMarkAsRead_RejectsMalformedIDs(t *testing.T) {
	store := memory.NewStore(fixedClock())
	svc := notificationsvc.NewNotificationService(memory.NewNotificationRepository(store), sse.NewHub(), fixedClock(), notificationsvc.Config{})
	defer svc.Stop()

	err := svc.MarkAsRead(context.Background(), notification.AudienceAdmin, nil, notification.MarkAsReadRequest{NotificationIDs: []string{"not-a-uuid"}})
	assert.Error(t, err)

	err = svc.MarkAsRead(context.Background(), notification.AudienceAdmin, nil, notification.MarkAsReadRequest{})
	assert.Error(t, err)
}
