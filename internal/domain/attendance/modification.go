package attendance

import "time"

type ModificationType string

const (
	ModificationEdit   ModificationType = "edit"
	ModificationAdd    ModificationType = "add"
	ModificationDelete ModificationType = "delete"
	ModificationReset  ModificationType = "reset"
)

// AttendanceModification is an append-only audit row. It is never updated or deleted.
type AttendanceModification struct {
	ID                   int64
	AttendanceID         int64
	ModifiedBy           int64
	Type                 ModificationType
	PreviousCheckInTime  *time.Time
	PreviousCheckOutTime *time.Time
	NewCheckInTime       *time.Time
	NewCheckOutTime      *time.Time
	Reason               string
	CreatedAt            time.Time
}
