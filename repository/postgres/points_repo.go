package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

type pointsRepository struct {
	db DBTX
}

// NewPointsRepository returns a Postgres-backed append-only points ledger.
func NewPointsRepository(db DBTX) repository.PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) Append(ctx context.Context, entry *domain.PointsEntry) error {
	if entry == nil {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO points (id, user_id, task_id, points, reason, awarded_at)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
	RETURNING awarded_at
	`
	return r.db.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.TaskID,
		entry.Points,
		entry.Reason,
		nullTime(entry.AwardedAt),
	).Scan(&entry.AwardedAt)
}

func (r *pointsRepository) ListByUser(ctx context.Context, userID string) ([]domain.PointsEntry, error) {
	const query = `
	SELECT id, user_id, task_id, points, reason, awarded_at
	FROM points
	WHERE user_id = $1
	ORDER BY awarded_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.PointsEntry{}
	for rows.Next() {
		var entry domain.PointsEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.TaskID, &entry.Points, &entry.Reason, &entry.AwardedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
