package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
)

type workZoneRepositoryImpl struct {
	store *Store
}

func NewWorkZoneRepository(store *Store) workzone.WorkZoneRepository {
	return &workZoneRepositoryImpl{store: store}
}

func (r *workZoneRepositoryImpl) List(ctx context.Context) ([]workzone.WorkZone, error) {
	return r.list(ctx, false)
}

func (r *workZoneRepositoryImpl) ListActive(ctx context.Context) ([]workzone.WorkZone, error) {
	return r.list(ctx, true)
}

func (r *workZoneRepositoryImpl) list(ctx context.Context, activeOnly bool) ([]workzone.WorkZone, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var out []workzone.WorkZone
	for _, z := range r.store.st.zones {
		if !activeOnly || z.IsActive {
			out = append(out, z)
		}
	}
	slices.SortFunc(out, func(a, b workzone.WorkZone) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *workZoneRepositoryImpl) GetByID(ctx context.Context, id int64) (workzone.WorkZone, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	z, ok := r.store.st.zones[id]
	if !ok {
		return workzone.WorkZone{}, workzone.ErrWorkZoneNotFound
	}
	return z, nil
}

func (r *workZoneRepositoryImpl) Create(ctx context.Context, zone workzone.WorkZone) (workzone.WorkZone, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.nameTaken(zone.Name, 0) {
		return workzone.WorkZone{}, workzone.ErrWorkZoneExists
	}
	now := r.store.clock.Now()
	zone.ID = r.store.nextID()
	zone.CreatedAt, zone.UpdatedAt = now, now
	r.store.st.zones[zone.ID] = zone
	return zone, nil
}

func (r *workZoneRepositoryImpl) Update(ctx context.Context, zone workzone.WorkZone) (workzone.WorkZone, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.st.zones[zone.ID]
	if !ok {
		return workzone.WorkZone{}, workzone.ErrWorkZoneNotFound
	}
	if r.nameTaken(zone.Name, zone.ID) {
		return workzone.WorkZone{}, workzone.ErrWorkZoneExists
	}
	zone.CreatedAt = existing.CreatedAt
	zone.UpdatedAt = r.store.clock.Now()
	r.store.st.zones[zone.ID] = zone
	return zone, nil
}

func (r *workZoneRepositoryImpl) nameTaken(name string, exceptID int64) bool {
	for _, z := range r.store.st.zones {
		if z.Name == name && z.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *workZoneRepositoryImpl) Delete(ctx context.Context, id int64) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.st.zones[id]; !ok {
		return workzone.ErrWorkZoneNotFound
	}
	delete(r.store.st.zones, id)
	return nil
}
