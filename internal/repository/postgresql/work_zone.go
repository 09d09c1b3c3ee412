package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/workzone"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const workZoneColumns = `id, name, latitude, longitude, radius_meters, is_active, created_at, updated_at`

type workZoneRepositoryImpl struct {
	db *database.DB
}

func NewWorkZoneRepository(db *database.DB) workzone.WorkZoneRepository {
	return &workZoneRepositoryImpl{db: db}
}

func scanWorkZone(row pgx.Row) (workzone.WorkZone, error) {
	var z workzone.WorkZone
	err := row.Scan(&z.ID, &z.Name, &z.Latitude, &z.Longitude, &z.RadiusMeters, &z.IsActive, &z.CreatedAt, &z.UpdatedAt)
	return z, err
}

// List implements workzone.WorkZoneRepository.
func (r *workZoneRepositoryImpl) List(ctx context.Context) ([]workzone.WorkZone, error) {
	return r.list(ctx, "")
}

// ListActive implements workzone.WorkZoneRepository.
func (r *workZoneRepositoryImpl) ListActive(ctx context.Context) ([]workzone.WorkZone, error) {
	return r.list(ctx, "WHERE is_active")
}

func (r *workZoneRepositoryImpl) list(ctx context.Context, where string) ([]workzone.WorkZone, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM work_zones %s ORDER BY id`, workZoneColumns, where)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list work zones: %w", err)
	}
	defer rows.Close()

	var zones []workzone.WorkZone
	for rows.Next() {
		z, err := scanWorkZone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// GetByID implements workzone.WorkZoneRepository.
func (r *workZoneRepositoryImpl) GetByID(ctx context.Context, id int64) (workzone.WorkZone, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM work_zones WHERE id = $1`, workZoneColumns)
	z, err := scanWorkZone(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workzone.WorkZone{}, workzone.ErrWorkZoneNotFound
		}
		return workzone.WorkZone{}, fmt.Errorf("failed to get work zone: %w", err)
	}
	return z, nil
}

// Create implements workzone.WorkZoneRepository.
func (r *workZoneRepositoryImpl) Create(ctx context.Context, zone workzone.WorkZone) (workzone.WorkZone, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO work_zones (name, latitude, longitude, radius_meters, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, workZoneColumns)
	created, err := scanWorkZone(q.QueryRow(ctx, query, zone.Name, zone.Latitude, zone.Longitude, zone.RadiusMeters, zone.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return workzone.WorkZone{}, workzone.ErrWorkZoneExists
		}
		return workzone.WorkZone{}, fmt.Errorf("failed to create work zone: %w", err)
	}
	return created, nil
}

// Update implements workzone.WorkZoneRepository.
func (r *workZoneRepositoryImpl) Update(ctx context.Context, zone workzone.WorkZone) (workzone.WorkZone, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE work_zones
		SET name = $1, latitude = $2, longitude = $3, radius_meters = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING %s
	`, workZoneColumns)
	updated, err := scanWorkZone(q.QueryRow(ctx, query,
		zone.Name, zone.Latitude, zone.Longitude, zone.RadiusMeters, zone.IsActive, zone.ID,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return workzone.WorkZone{}, workzone.ErrWorkZoneNotFound
		case isUniqueViolation(err):
			return workzone.WorkZone{}, workzone.ErrWorkZoneExists
		}
		return workzone.WorkZone{}, fmt.Errorf("failed to update work zone: %w", err)
	}
	return updated, nil
}

// Delete implements workzone.WorkZoneRepository.
func (r *workZoneRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_zones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work zone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workzone.ErrWorkZoneNotFound
	}
	return nil
}
