package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// CreateBatch inserts every notification with a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const cols = 9
	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]any, 0, len(notifications)*cols)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}

		var dataJSON []byte
		if n.Data != nil {
			var err error
			dataJSON, err = json.Marshal(n.Data)
			if err != nil {
				return fmt.Errorf("failed to marshal notification data: %w", err)
			}
		}

		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs,
			n.ID,
			string(n.Audience),
			n.BranchID,
			n.EmployeeID,
			string(n.Type),
			n.Title,
			n.Message,
			dataJSON,
			n.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, audience, branch_id, employee_id, type, title, message, data, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}
	return nil
}

// feedClause scopes a query to one audience feed. Placeholders start at $1.
func feedClause(audience notification.Audience, branchID *int64) (string, []any) {
	if audience == notification.AudienceBranch {
		return "audience = 'branch' AND branch_id = $1", []any{branchID}
	}
	return "audience = 'admin'", nil
}

// List returns a page of the feed, newest first
func (r *notificationRepository) List(ctx context.Context, audience notification.Audience, branchID *int64, page, pageSize int, unreadOnly bool) ([]notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := feedClause(audience, branchID)
	if unreadOnly {
		whereClause += " AND is_read = false"
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notifications WHERE %s", whereClause)
	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	argIndex := len(args) + 1
	query := fmt.Sprintf(`
		SELECT id, audience, branch_id, employee_id, type, title, message, data, is_read, read_at, created_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]notification.Notification, 0, pageSize)
	for rows.Next() {
		var n notification.Notification
		var dataJSON []byte
		var audienceStr, notifType string

		if err := rows.Scan(
			&n.ID,
			&audienceStr,
			&n.BranchID,
			&n.EmployeeID,
			&notifType,
			&n.Title,
			&n.Message,
			&dataJSON,
			&n.IsRead,
			&n.ReadAt,
			&n.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}

		n.Audience = notification.Audience(audienceStr)
		n.Type = notification.NotificationType(notifType)
		if dataJSON != nil {
			if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// UnreadCount counts unread notifications in the feed
func (r *notificationRepository) UnreadCount(ctx context.Context, audience notification.Audience, branchID *int64) (int, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := feedClause(audience, branchID)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM notifications WHERE %s AND is_read = false`, whereClause)

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks the given notifications read; ids outside the feed are ignored
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, audience notification.Audience, branchID *int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	whereClause, args := feedClause(audience, branchID)
	args = append(args, at, ids)
	query := fmt.Sprintf(`
		UPDATE notifications
		SET is_read = true, read_at = $%d
		WHERE %s AND is_read = false AND id = ANY($%d::text[]::uuid[])
	`, len(args)-1, whereClause, len(args))

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}
