package repository

import (
	"context"

	"github.com/fastygo/neighborly/domain"
)

type ReviewRepository interface {
	// Create fails with domain.ErrAlreadyReviewed when the (task, reviewer) pair exists.
	Create(ctx context.Context, review *domain.Review) error
	Exists(ctx context.Context, taskID, reviewerID string) (bool, error)
	// ListByReviewee returns newest first, at most limit entries (0 = no limit).
	ListByReviewee(ctx context.Context, revieweeID string, limit int) ([]domain.Review, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.Review, error)
}
