package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/neighborly/domain"
)

// review_keys maps task|reviewer to the review id and enforces one review per pair.
type reviewRepository struct {
	base
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review == nil || review.TaskID == "" || review.ReviewerID == "" {
		return domain.ErrInvalidPayload
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = r.timestamp()
	}
	return r.update(func(tx *bbolt.Tx) error {
		keys := tx.Bucket(bucketReviewKeys)
		pair := compositeKey(review.TaskID, review.ReviewerID)
		if keys.Get(pair) != nil {
			return domain.ErrAlreadyReviewed
		}
		if err := keys.Put(pair, []byte(review.ID)); err != nil {
			return err
		}
		return putJSON(tx.Bucket(bucketReviews), []byte(review.ID), review)
	})
}

func (r *reviewRepository) Exists(ctx context.Context, taskID, reviewerID string) (bool, error) {
	var exists bool
	err := r.view(func(tx *bbolt.Tx) error {
		exists = tx.Bucket(bucketReviewKeys).Get(compositeKey(taskID, reviewerID)) != nil
		return nil
	})
	return exists, err
}

func (r *reviewRepository) ListByReviewee(ctx context.Context, revieweeID string, limit int) ([]domain.Review, error) {
	reviews, err := r.collect(func(rv *domain.Review) bool { return rv.RevieweeID == revieweeID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (r *reviewRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Review, error) {
	reviews, err := r.collect(func(rv *domain.Review) bool { return rv.TaskID == taskID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (r *reviewRepository) collect(match func(*domain.Review) bool) ([]domain.Review, error) {
	reviews := []domain.Review{}
	err := r.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketReviews).ForEach(func(k, v []byte) error {
			var review domain.Review
			if err := json.Unmarshal(v, &review); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			if match(&review) {
				reviews = append(reviews, review)
			}
			return nil
		})
	})
	return reviews, err
}
