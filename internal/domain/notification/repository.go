package notification

import (
	"context"
	"time"
)

// Repository defines the notification repository interface
type Repository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
	// List returns one page of the audience feed, newest first, and the total count.
	List(ctx context.Context, audience Audience, branchID *int64, page, pageSize int, unreadOnly bool) ([]Notification, int, error)
	UnreadCount(ctx context.Context, audience Audience, branchID *int64) (int, error)
	MarkAsRead(ctx context.Context, ids []string, audience Audience, branchID *int64, at time.Time) error
}
