package workzone

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
)

type WorkZone struct {
	ID           int64
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (z WorkZone) Geo() geo.Zone {
	return geo.Zone{
		Name:         z.Name,
		Center:       geo.Point{Latitude: z.Latitude, Longitude: z.Longitude},
		RadiusMeters: z.RadiusMeters,
	}
}

// GeoZones keeps the input order, which decides the reported zone name on overlap.
func GeoZones(zones []WorkZone) []geo.Zone {
	out := make([]geo.Zone, 0, len(zones))
	for _, z := range zones {
		out = append(out, z.Geo())
	}
	return out
}
