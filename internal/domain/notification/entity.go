package notification

import (
	"fmt"
	"time"
)

// NotificationType tags the event that produced a notification
type NotificationType string

const (
	TypeDeviceMismatch NotificationType = "device_mismatch"
	TypeOutsideZone    NotificationType = "outside_zone_attempt"
	TypeLateArrival    NotificationType = "late_arrival"
	TypeEarlyCheckout  NotificationType = "early_checkout"
	TypeLeftZone       NotificationType = "left_zone_without_checkout"
	TypeLeaveRequested NotificationType = "leave_requested"
	TypeLeaveDecided   NotificationType = "leave_decided"
	TypeAbsenteeDigest NotificationType = "absentee_digest"
)

// Audience selects who sees a notification: every administrator, or one branch's managers.
type Audience string

const (
	AudienceAdmin  Audience = "admin"
	AudienceBranch Audience = "branch"
)

// Notification represents a notification entity
type Notification struct {
	ID         string
	Audience   Audience
	BranchID   *int64
	EmployeeID *int64
	Type       NotificationType
	Title      string
	Message    string
	Data       map[string]any
	IsRead     bool
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// Topic is the SSE hub topic a notification is published on.
func (n Notification) Topic() string {
	return TopicFor(n.Audience, n.BranchID)
}

func TopicFor(audience Audience, branchID *int64) string {
	if audience == AudienceBranch && branchID != nil {
		return fmt.Sprintf("branch:%d", *branchID)
	}
	return string(AudienceAdmin)
}
