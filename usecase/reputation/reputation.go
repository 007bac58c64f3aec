// Package reputation maintains review-driven ratings and the points ledger.
package reputation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
	"github.com/fastygo/neighborly/usecase"
)

// UserReviewsLimit caps the profile review feed.
const UserReviewsLimit = 20

type UseCase struct {
	store  repository.Store
	logger *zap.Logger
}

func New(store repository.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		logger: logger,
	}
}

// ReviewInput is the reviewer-supplied part of a review.
type ReviewInput struct {
	TaskID     string
	RevieweeID string
	Rating     int
	Comment    string
	Type       domain.ReviewType
}

// CreateReview stores the review and folds its rating into the reviewee's
// aggregate within the same transaction.
func (uc *UseCase) CreateReview(ctx context.Context, callerID string, in ReviewInput) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	if !domain.ValidRating(in.Rating) {
		return domain.ErrInvalidRating
	}

	err := uc.store.Transact(ctx, func(ctx context.Context, repos repository.Repositories) error {
		task, err := repos.Tasks.GetByID(ctx, in.TaskID)
		if err != nil {
			return err
		}
		if !domain.CanAct(callerID, task, domain.ActionReview) {
			return domain.ErrForbidden
		}
		if !task.IsCompleted() {
			return domain.ErrInvalidState
		}

		direction, _ := domain.ReviewDirection(task, callerID)
		if in.RevieweeID != task.Counterpart(callerID) {
			return domain.ErrReviewTarget
		}
		if in.Type != "" && in.Type != direction {
			return domain.ErrReviewTarget
		}

		exists, err := repos.Reviews.Exists(ctx, task.ID, callerID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyReviewed
		}

		review := &domain.Review{
			TaskID:     task.ID,
			ReviewerID: callerID,
			RevieweeID: in.RevieweeID,
			Rating:     in.Rating,
			Comment:    in.Comment,
			Type:       direction,
		}
		if err := repos.Reviews.Create(ctx, review); err != nil {
			return err
		}

		_, err = RecordRating(ctx, repos.Users, in.RevieweeID, in.Rating)
		return err
	})
	if err != nil {
		return err
	}

	uc.logger.Info("review created",
		zap.String("task_id", in.TaskID),
		zap.String("reviewer_id", callerID),
		zap.String("reviewee_id", in.RevieweeID))
	return nil
}

// RecordRating applies one score to the user's running average. A missing
// user is skipped and reported as nil.
func RecordRating(ctx context.Context, users repository.UserRepository, userID string, value int) (*domain.User, error) {
	user, err := users.GetForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	mean, count := user.Reputation()
	user.Rating, user.ReviewCount = domain.ApplyRating(mean, count, value)
	if err := users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AwardCompletion credits the task's helper with its reward: one ledger entry
// plus the running total. Tasks without a helper award nothing.
func AwardCompletion(ctx context.Context, repos repository.Repositories, task *domain.Task, at time.Time) (*domain.PointsEntry, error) {
	if task == nil || task.HelperID == "" {
		return nil, nil
	}

	entry := &domain.PointsEntry{
		UserID:    task.HelperID,
		TaskID:    task.ID,
		Points:    task.RewardPoints,
		Reason:    domain.CompletionReason,
		AwardedAt: at,
	}
	if err := repos.Points.Append(ctx, entry); err != nil {
		return nil, err
	}

	helper, err := repos.Users.GetForUpdate(ctx, task.HelperID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return entry, nil
		}
		return nil, err
	}
	helper.TotalPoints += task.RewardPoints
	if err := repos.Users.Upsert(ctx, helper); err != nil {
		return nil, err
	}
	return entry, nil
}

// UserReviews returns the latest reviews received by userID, newest first.
func (uc *UseCase) UserReviews(ctx context.Context, userID string) ([]domain.ReviewView, error) {
	repos := uc.store.Repositories()
	reviews, err := repos.Reviews.ListByReviewee(ctx, userID, UserReviewsLimit)
	if err != nil {
		return nil, err
	}

	lookup := usecase.NewUserLookup(repos.Users)
	titles := make(map[string]string)
	views := make([]domain.ReviewView, 0, len(reviews))
	for _, review := range reviews {
		name, err := lookup.Name(ctx, review.ReviewerID, domain.AnonymousName)
		if err != nil {
			return nil, err
		}
		title, ok := titles[review.TaskID]
		if !ok {
			title, err = taskTitle(ctx, repos.Tasks, review.TaskID)
			if err != nil {
				return nil, err
			}
			titles[review.TaskID] = title
		}
		views = append(views, domain.ReviewView{Review: review, ReviewerName: name, TaskTitle: title})
	}
	return views, nil
}

// TaskReviews returns every review left on taskID.
func (uc *UseCase) TaskReviews(ctx context.Context, taskID string) ([]domain.ReviewView, error) {
	repos := uc.store.Repositories()
	reviews, err := repos.Reviews.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	lookup := usecase.NewUserLookup(repos.Users)
	views := make([]domain.ReviewView, 0, len(reviews))
	for _, review := range reviews {
		reviewer, err := lookup.Name(ctx, review.ReviewerID, domain.AnonymousName)
		if err != nil {
			return nil, err
		}
		reviewee, err := lookup.Name(ctx, review.RevieweeID, domain.AnonymousName)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.ReviewView{Review: review, ReviewerName: reviewer, RevieweeName: reviewee})
	}
	return views, nil
}

// PointsHistory lists the caller's ledger; anonymous callers get an empty list.
func (uc *UseCase) PointsHistory(ctx context.Context, callerID string) ([]domain.PointsEntry, error) {
	if callerID == "" {
		return []domain.PointsEntry{}, nil
	}
	return uc.store.Repositories().Points.ListByUser(ctx, callerID)
}

func taskTitle(ctx context.Context, tasks repository.TaskRepository, id string) (string, error) {
	task, err := tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.UnknownTaskTitle, nil
		}
		return "", err
	}
	if task.Title == "" {
		return domain.UnknownTaskTitle, nil
	}
	return task.Title, nil
}
