package workzone

import "context"

type WorkZoneService interface {
	List(ctx context.Context) ([]WorkZoneResponse, error)
	Get(ctx context.Context, id int64) (WorkZoneResponse, error)
	Create(ctx context.Context, req CreateWorkZoneRequest) (WorkZoneResponse, error)
	Update(ctx context.Context, req UpdateWorkZoneRequest) (WorkZoneResponse, error)
	Delete(ctx context.Context, id int64) error
}
