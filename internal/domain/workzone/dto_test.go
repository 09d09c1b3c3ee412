package workzone

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateWorkZoneRequest_Validate(t *testing.T) {
	ok := CreateWorkZoneRequest{Name: "HQ", Latitude: ptr(-6.2), Longitude: ptr(106.8), RadiusMeters: 100}
	assert.NoError(t, ok.Validate())

	bad := CreateWorkZoneRequest{Name: "  ", Latitude: ptr(-100.0), RadiusMeters: 0}
	err := bad.Validate()
	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))

	fields := ve.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "latitude")
	assert.Contains(t, fields, "longitude")
	assert.Contains(t, fields, "radius_meters")
}

func TestUpdateWorkZoneRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateWorkZoneRequest{ID: 1}).Validate())
	assert.NoError(t, (&UpdateWorkZoneRequest{ID: 1, RadiusMeters: ptr(50.0)}).Validate())

	err := (&UpdateWorkZoneRequest{ID: 1, RadiusMeters: ptr(-5.0)}).Validate()
	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.ToMap(), "radius_meters")
}

func TestGeoZonesKeepsOrder(t *testing.T) {
	zones := GeoZones([]WorkZone{{Name: "a", RadiusMeters: 1}, {Name: "b", RadiusMeters: 2}})
	require.Len(t, zones, 2)
	assert.Equal(t, "a", zones[0].Name)
	assert.Equal(t, 2.0, zones[1].RadiusMeters)
}
