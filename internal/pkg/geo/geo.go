package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

type Point struct {
	Latitude  float64
	Longitude float64
}

// Zone is a circular fence around Center.
type Zone struct {
	Name         string
	Center       Point
	RadiusMeters float64
}

type Result struct {
	Inside   bool
	ZoneName string
	// NearestMeters is the distance to the closest zone center; logging only.
	NearestMeters float64
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// IsInsideAnyZone reports whether p lies within any zone. An empty zone set disables
// geofencing and every point is inside. The first containing zone names the result.
func IsInsideAnyZone(p Point, zones []Zone) Result {
	if len(zones) == 0 {
		return Result{Inside: true}
	}

	nearest := math.Inf(1)
	for _, z := range zones {
		d := Distance(p, z.Center)
		if d < nearest {
			nearest = d
		}
		if d <= z.RadiusMeters {
			return Result{Inside: true, ZoneName: z.Name, NearestMeters: d}
		}
	}

	return Result{Inside: false, NearestMeters: nearest}
}

// ValidCoordinate reports whether lat/lon are within decimal-degree bounds.
func ValidCoordinate(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lon) &&
		lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
