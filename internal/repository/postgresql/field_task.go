package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/fieldtask"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const fieldTaskColumns = `id, employee_id, date, start_time, start_latitude, start_longitude, start_method,
	end_time, end_latitude, end_longitude, end_method, notes, status, created_at, updated_at`

type fieldTaskRepository struct {
	db *database.DB
}

func NewFieldTaskRepository(db *database.DB) fieldtask.FieldTaskRepository {
	return &fieldTaskRepository{db: db}
}

func scanFieldTask(row pgx.Row) (fieldtask.FieldTask, error) {
	var t fieldtask.FieldTask
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.Date, &t.StartTime, &t.StartLatitude, &t.StartLongitude, &t.StartMethod,
		&t.EndTime, &t.EndLatitude, &t.EndLongitude, &t.EndMethod, &t.Notes, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// GetActive implements fieldtask.FieldTaskRepository.
func (f *fieldTaskRepository) GetActive(ctx context.Context, employeeID int64) (*fieldtask.FieldTask, error) {
	q := GetQuerier(ctx, f.db)

	query := fmt.Sprintf(`SELECT %s FROM field_tasks WHERE employee_id = $1 AND status = 'active' FOR UPDATE`, fieldTaskColumns)
	t, err := scanFieldTask(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active field task: %w", err)
	}
	return &t, nil
}

// Create implements fieldtask.FieldTaskRepository.
func (f *fieldTaskRepository) Create(ctx context.Context, task fieldtask.FieldTask) (fieldtask.FieldTask, error) {
	q := GetQuerier(ctx, f.db)

	query := fmt.Sprintf(`
		INSERT INTO field_tasks (employee_id, date, start_time, start_latitude, start_longitude, start_method, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
		RETURNING %s
	`, fieldTaskColumns)
	created, err := scanFieldTask(q.QueryRow(ctx, query,
		task.EmployeeID, task.Date, task.StartTime, task.StartLatitude, task.StartLongitude, task.StartMethod, task.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return fieldtask.FieldTask{}, fieldtask.ErrActiveTaskExists
		}
		return fieldtask.FieldTask{}, fmt.Errorf("failed to create field task: %w", err)
	}
	return created, nil
}

// Complete implements fieldtask.FieldTaskRepository.
func (f *fieldTaskRepository) Complete(ctx context.Context, id int64, end attendance.Punch) (bool, error) {
	q := GetQuerier(ctx, f.db)

	query := `
		UPDATE field_tasks
		SET end_time = $1, end_latitude = $2, end_longitude = $3, end_method = $4, status = 'completed', updated_at = NOW()
		WHERE id = $5 AND status = 'active'
	`
	tag, err := q.Exec(ctx, query, end.Time, end.Latitude, end.Longitude, end.Method, id)
	if err != nil {
		return false, fmt.Errorf("failed to complete field task: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Cancel implements fieldtask.FieldTaskRepository.
func (f *fieldTaskRepository) Cancel(ctx context.Context, id int64, at time.Time) (bool, error) {
	q := GetQuerier(ctx, f.db)

	query := `
		UPDATE field_tasks
		SET end_time = $1, status = 'cancelled', updated_at = NOW()
		WHERE id = $2 AND status = 'active'
	`
	tag, err := q.Exec(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel field task: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID implements fieldtask.FieldTaskRepository.
func (f *fieldTaskRepository) GetByID(ctx context.Context, id int64) (fieldtask.FieldTask, error) {
	q := GetQuerier(ctx, f.db)

	query := fmt.Sprintf(`SELECT %s FROM field_tasks WHERE id = $1`, fieldTaskColumns)
	t, err := scanFieldTask(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fieldtask.FieldTask{}, fieldtask.ErrFieldTaskNotFound
		}
		return fieldtask.FieldTask{}, fmt.Errorf("failed to get field task: %w", err)
	}
	return t, nil
}

// ListByEmployee implements fieldtask.FieldTaskRepository.
func (f *fieldTaskRepository) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]fieldtask.FieldTask, error) {
	q := GetQuerier(ctx, f.db)

	query := fmt.Sprintf(`
		SELECT %s FROM field_tasks
		WHERE employee_id = $1
		ORDER BY start_time DESC, id DESC
		LIMIT $2
	`, fieldTaskColumns)
	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list field tasks: %w", err)
	}
	defer rows.Close()

	var tasks []fieldtask.FieldTask
	for rows.Next() {
		t, err := scanFieldTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
