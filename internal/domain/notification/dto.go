package notification

import (
	"time"
)

// ============= Request DTOs =============

// CreateNotificationRequest is handed to the asynchronous queue
type CreateNotificationRequest struct {
	Audience   Audience
	BranchID   *int64
	EmployeeID *int64
	Type       NotificationType
	Title      string
	Message    string
	Data       map[string]any
}

// EmployeeEvent describes something an employee did that admins and their branch should see.
type EmployeeEvent struct {
	EmployeeID int64
	BranchID   *int64
	Type       NotificationType
	Title      string
	Message    string
	Data       map[string]any
}

// MarkAsReadRequest represents a request to mark notifications as read
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1,dive,uuid"`
}

// ListNotificationsRequest scopes a feed to an audience
type ListNotificationsRequest struct {
	Audience   Audience
	BranchID   *int64
	Page       int
	PageSize   int
	UnreadOnly bool
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID         string           `json:"id"`
	Audience   Audience         `json:"audience"`
	BranchID   *int64           `json:"branch_id,omitempty"`
	EmployeeID *int64           `json:"employee_id,omitempty"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Data       map[string]any   `json:"data,omitempty"`
	IsRead     bool             `json:"is_read"`
	ReadAt     *time.Time       `json:"read_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// ============= SSE Event =============

// SSEEvent represents a Server-Sent Event
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}

func ToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Audience:   n.Audience,
		BranchID:   n.BranchID,
		EmployeeID: n.EmployeeID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Data:       n.Data,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

// SSETokenResponse hands an EventSource client its short-lived stream token
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
