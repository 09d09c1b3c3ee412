package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

type notificationRepositoryImpl struct {
	store *Store
}

func NewNotificationRepository(store *Store) notification.Repository {
	return &notificationRepositoryImpl{store: store}
}

func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, n := range notifications {
		r.store.st.notifications[n.ID] = n
	}
	return nil
}

func inFeed(n notification.Notification, audience notification.Audience, branchID *int64) bool {
	if n.Audience != audience {
		return false
	}
	if audience == notification.AudienceBranch {
		return n.BranchID != nil && branchID != nil && *n.BranchID == *branchID
	}
	return true
}

func (r *notificationRepositoryImpl) List(ctx context.Context, audience notification.Audience, branchID *int64, page, pageSize int, unreadOnly bool) ([]notification.Notification, int, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var feed []notification.Notification
	for _, n := range r.store.st.notifications {
		if inFeed(n, audience, branchID) && (!unreadOnly || !n.IsRead) {
			feed = append(feed, n)
		}
	}
	slices.SortFunc(feed, func(a, b notification.Notification) int { return b.CreatedAt.Compare(a.CreatedAt) })

	total := len(feed)
	start := (page - 1) * pageSize
	if start >= total {
		return []notification.Notification{}, total, nil
	}
	end := min(start+pageSize, total)
	return feed[start:end], total, nil
}

func (r *notificationRepositoryImpl) UnreadCount(ctx context.Context, audience notification.Audience, branchID *int64) (int, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	count := 0
	for _, n := range r.store.st.notifications {
		if inFeed(n, audience, branchID) && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, ids []string, audience notification.Audience, branchID *int64, at time.Time) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, id := range ids {
		n, ok := r.store.st.notifications[id]
		if !ok || !inFeed(n, audience, branchID) || n.IsRead {
			continue
		}
		n.IsRead = true
		n.ReadAt = &at
		r.store.st.notifications[id] = n
	}
	return nil
}
