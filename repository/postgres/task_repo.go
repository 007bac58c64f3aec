package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

const taskColumns = `id, title, description, category, seeker_id, helper_id, lat, lng, address,
	scheduled_time, reward_points, status, applicants, completed_at, created_at, updated_at`

type taskRepository struct {
	db DBTX
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(db DBTX) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

func (r *taskRepository) GetForUpdate(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR seeker_id = $1)
	  AND ($2 = '' OR helper_id = $2)
	  AND ($3 = '' OR status = $3)
	  AND ($4 = '' OR category = $4)
	  AND ($5 = '' OR seeker_id <> $5)
	  AND ($6::boolean IS FALSE OR (lat BETWEEN $7 AND $8 AND lng BETWEEN $9 AND $10))
	ORDER BY created_at DESC
	LIMIT $11
	`
	var box domain.BoundingBox
	if filter.Box != nil {
		box = *filter.Box
	}
	rows, err := r.db.Query(ctx, query,
		filter.SeekerID,
		filter.HelperID,
		string(filter.Status),
		string(filter.Category),
		filter.ExcludeSeekerID,
		filter.Box != nil,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
		limitOrAll(filter.Limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, category, seeker_id, helper_id, lat, lng, address,
		scheduled_time, reward_points, status, applicants, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at, updated_at
	`

	task.Applicants = nonNil(task.Applicants)
	return r.db.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Category),
		task.SeekerID,
		nullString(task.HelperID),
		task.Location.Lat,
		task.Location.Lng,
		task.Location.Address,
		task.ScheduledAt,
		task.RewardPoints,
		string(task.Status),
		task.Applicants,
		task.CompletedAt,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		category = $4,
		helper_id = $5,
		lat = $6,
		lng = $7,
		address = $8,
		scheduled_time = $9,
		reward_points = $10,
		status = $11,
		applicants = $12,
		completed_at = $13,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.db.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Category),
		nullString(task.HelperID),
		task.Location.Lat,
		task.Location.Lng,
		task.Location.Address,
		task.ScheduledAt,
		task.RewardPoints,
		string(task.Status),
		nonNil(task.Applicants),
		task.CompletedAt,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		category  string
		status    string
		helperID  *string
		scheduled *time.Time
		completed *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&category,
		&task.SeekerID,
		&helperID,
		&task.Location.Lat,
		&task.Location.Lng,
		&task.Location.Address,
		&scheduled,
		&task.RewardPoints,
		&status,
		&task.Applicants,
		&completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Category = domain.Category(category)
	task.Status = domain.Status(status)
	task.ScheduledAt = scheduled
	task.CompletedAt = completed
	task.Applicants = nonNil(task.Applicants)
	if helperID != nil {
		task.HelperID = *helperID
	}

	return &task, nil
}
