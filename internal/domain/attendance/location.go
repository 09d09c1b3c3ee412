package attendance

import "time"

// LocationPing is one reported position, kept so zone exits fire only on the inside→outside edge.
type LocationPing struct {
	ID         int64
	EmployeeID int64
	Latitude   float64
	Longitude  float64
	Accuracy   *float64
	InsideZone bool
	ZoneName   *string
	RecordedAt time.Time
}
