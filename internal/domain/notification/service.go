package notification

import (
	"context"
)

// Service defines the notification service interface
type Service interface {
	// Queue hands a notification to the background workers without blocking.
	Queue(ctx context.Context, req CreateNotificationRequest) error
	// NotifyEmployeeEvent fans an event out to the admin feed and the employee's branch feed.
	// Failures are logged and never returned.
	NotifyEmployeeEvent(ctx context.Context, ev EmployeeEvent)

	List(ctx context.Context, req ListNotificationsRequest) (*NotificationListResponse, error)
	MarkAsRead(ctx context.Context, audience Audience, branchID *int64, req MarkAsReadRequest) error

	// Subscribe streams notifications published on topics until ctx ends or cleanup is called.
	Subscribe(ctx context.Context, topics ...string) (<-chan SSEEvent, func())

	// Stop drains the queue and waits for the workers.
	Stop()
}
