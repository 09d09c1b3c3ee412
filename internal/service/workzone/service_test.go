package workzone_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	workzonesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/workzone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newService() workzone.WorkZoneService {
	store := memory.NewStore(clock.NewFixed(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)))
	return workzonesvc.NewWorkZoneService(memory.NewTransactor(store), memory.NewWorkZoneRepository(store))
}

func TestWorkZoneCRUD(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, workzone.CreateWorkZoneRequest{
		Name: " HQ ", Latitude: ptr(-6.2), Longitude: ptr(106.8), RadiusMeters: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "HQ", created.Name)
	assert.True(t, created.IsActive)

	_, err = svc.Create(ctx, workzone.CreateWorkZoneRequest{
		Name: "HQ", Latitude: ptr(-6.3), Longitude: ptr(106.9), RadiusMeters: 50,
	})
	require.ErrorIs(t, err, workzone.ErrWorkZoneExists)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	updated, err := svc.Update(ctx, workzone.UpdateWorkZoneRequest{ID: created.ID, RadiusMeters: ptr(250.0), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.RadiusMeters)
	assert.False(t, updated.IsActive)
	assert.Equal(t, -6.2, updated.Latitude)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, workzone.ErrWorkZoneNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWorkZone_InvalidInput(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, workzone.CreateWorkZoneRequest{Name: "Depot", Latitude: ptr(95.0), Longitude: ptr(106.8), RadiusMeters: 0})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Update(ctx, workzone.UpdateWorkZoneRequest{ID: 42, RadiusMeters: ptr(-1.0)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Update(ctx, workzone.UpdateWorkZoneRequest{ID: 42, Name: ptr("Depot")})
	assert.ErrorIs(t, err, workzone.ErrWorkZoneNotFound)
}
