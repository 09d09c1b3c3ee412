package workzone

import "context"

type WorkZoneRepository interface {
	List(ctx context.Context) ([]WorkZone, error)
	// ListActive returns active zones ordered by id.
	ListActive(ctx context.Context) ([]WorkZone, error)
	GetByID(ctx context.Context, id int64) (WorkZone, error)
	Create(ctx context.Context, zone WorkZone) (WorkZone, error)
	Update(ctx context.Context, zone WorkZone) (WorkZone, error)
	Delete(ctx context.Context, id int64) error
}
