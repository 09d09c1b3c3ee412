package employee

import (
	"time"
)

type Employee struct {
	ID                 int64
	UserID             *string
	EmployeeCode       string
	FullName           string
	Role               Role
	Status             Status
	BranchID           *int64
	RegisteredDeviceID *string
	DeviceRegisteredAt *time.Time
	FingerprintEnabled bool
	FaceDataID         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleBranchManager Role = "branch_manager"
	RoleEmployee      Role = "employee"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Ref identifies an employee by kiosk code or by session identity. ID wins when both are set.
type Ref struct {
	ID   int64
	Code string
}

func (r Ref) IsZero() bool {
	return r.ID == 0 && r.Code == ""
}
