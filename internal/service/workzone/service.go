package workzone

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type WorkZoneServiceImpl struct {
	txr   database.Transactor
	zones workzone.WorkZoneRepository
}

func NewWorkZoneService(txr database.Transactor, zoneRepo workzone.WorkZoneRepository) workzone.WorkZoneService {
	return &WorkZoneServiceImpl{txr: txr, zones: zoneRepo}
}

func (s *WorkZoneServiceImpl) List(ctx context.Context) ([]workzone.WorkZoneResponse, error) {
	zones, err := s.zones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list work zones: %w", err)
	}
	out := make([]workzone.WorkZoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, workzone.ToResponse(z))
	}
	return out, nil
}

func (s *WorkZoneServiceImpl) Get(ctx context.Context, id int64) (workzone.WorkZoneResponse, error) {
	z, err := s.zones.GetByID(ctx, id)
	if err != nil {
		return workzone.WorkZoneResponse{}, err
	}
	return workzone.ToResponse(z), nil
}

func (s *WorkZoneServiceImpl) Create(ctx context.Context, req workzone.CreateWorkZoneRequest) (workzone.WorkZoneResponse, error) {
	if err := req.Validate(); err != nil {
		return workzone.WorkZoneResponse{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	z, err := s.zones.Create(ctx, workzone.WorkZone{
		Name:         strings.TrimSpace(req.Name),
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		RadiusMeters: req.RadiusMeters,
		IsActive:     active,
	})
	if err != nil {
		return workzone.WorkZoneResponse{}, err
	}

	slog.Info("work zone created", "zone_id", z.ID, "name", z.Name, "radius_meters", z.RadiusMeters)
	return workzone.ToResponse(z), nil
}

// Update applies the non-nil fields of req to the stored zone.
func (s *WorkZoneServiceImpl) Update(ctx context.Context, req workzone.UpdateWorkZoneRequest) (workzone.WorkZoneResponse, error) {
	if err := req.Validate(); err != nil {
		return workzone.WorkZoneResponse{}, err
	}

	var updated workzone.WorkZone
	err := s.txr.WithinTx(ctx, func(ctx context.Context) error {
		z, err := s.zones.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			z.Name = strings.TrimSpace(*req.Name)
		}
		if req.Latitude != nil {
			z.Latitude = *req.Latitude
		}
		if req.Longitude != nil {
			z.Longitude = *req.Longitude
		}
		if req.RadiusMeters != nil {
			z.RadiusMeters = *req.RadiusMeters
		}
		if req.IsActive != nil {
			z.IsActive = *req.IsActive
		}

		updated, err = s.zones.Update(ctx, z)
		return err
	})
	if err != nil {
		return workzone.WorkZoneResponse{}, err
	}

	slog.Info("work zone updated", "zone_id", updated.ID, "active", updated.IsActive)
	return workzone.ToResponse(updated), nil
}

func (s *WorkZoneServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.zones.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("work zone deleted", "zone_id", id)
	return nil
}
