package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

const reviewColumns = `id, task_id, reviewer_id, reviewee_id, rating, comment, review_type, created_at`

type reviewRepository struct {
	db DBTX
}

// NewReviewRepository returns a Postgres-backed ReviewRepository.
func NewReviewRepository(db DBTX) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review == nil {
		return domain.ErrInvalidPayload
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO reviews (id, task_id, reviewer_id, reviewee_id, rating, comment, review_type, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
	RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		review.ID,
		review.TaskID,
		review.ReviewerID,
		review.RevieweeID,
		review.Rating,
		review.Comment,
		string(review.Type),
		nullTime(review.CreatedAt),
	).Scan(&review.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyReviewed
	}
	return err
}

func (r *reviewRepository) Exists(ctx context.Context, taskID, reviewerID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reviews WHERE task_id = $1 AND reviewer_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, taskID, reviewerID).Scan(&exists)
	return exists, err
}

func (r *reviewRepository) ListByReviewee(ctx context.Context, revieweeID string, limit int) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE reviewee_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, revieweeID, limitOrAll(limit))
}

func (r *reviewRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE task_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, taskID)
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var (
			review domain.Review
			kind   string
		)
		if err := rows.Scan(
			&review.ID,
			&review.TaskID,
			&review.ReviewerID,
			&review.RevieweeID,
			&review.Rating,
			&review.Comment,
			&kind,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		review.Type = domain.ReviewType(kind)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
