package reputation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/internal/testutil"
	"github.com/fastygo/neighborly/repository"
	"github.com/fastygo/neighborly/repository/bolt"
)

func setup(t *testing.T) (*UseCase, *bolt.Store) {
	t.Helper()
	store := testutil.NewStore(t)
	testutil.SeedUsers(t, store,
		testutil.Profile("seeker", "Sara", domain.RoleSeeker, 0, 0),
		testutil.Profile("helper", "Hugo", domain.RoleHelper, 0, 0),
		testutil.Profile("other", "Olga", domain.RoleHelper, 0, 0),
	)
	return New(store, nil), store
}

func seedTask(t *testing.T, store *bolt.Store, status domain.Status, helperID string) string {
	t.Helper()
	task := &domain.Task{
		Title:        "Fix the fence",
		Category:     domain.CategoryHousehold,
		SeekerID:     "seeker",
		HelperID:     helperID,
		Status:       status,
		RewardPoints: 10,
	}
	require.NoError(t, store.Repositories().Tasks.Create(context.Background(), task))
	return task.ID
}

func TestCreateReview_AveragesRatings(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	first := seedTask(t, store, domain.StatusCompleted, "helper")
	second := seedTask(t, store, domain.StatusCompleted, "helper")

	require.NoError(t, uc.CreateReview(ctx, "seeker", ReviewInput{TaskID: first, RevieweeID: "helper", Rating: 3}))
	require.NoError(t, uc.CreateReview(ctx, "seeker", ReviewInput{TaskID: second, RevieweeID: "helper", Rating: 5}))

	helper := testutil.GetUser(t, store, "helper")
	assert.Equal(t, 4.0, helper.Rating)
	assert.Equal(t, 2, helper.ReviewCount)

	reviews, err := store.Repositories().Reviews.ListByTask(ctx, first)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, domain.ReviewSeekerToHelper, reviews[0].Type)
}

func TestCreateReview_BothDirections(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	id := seedTask(t, store, domain.StatusCompleted, "helper")

	require.NoError(t, uc.CreateReview(ctx, "seeker", ReviewInput{
		TaskID: id, RevieweeID: "helper", Rating: 5, Type: domain.ReviewSeekerToHelper,
	}))
	require.NoError(t, uc.CreateReview(ctx, "helper", ReviewInput{TaskID: id, RevieweeID: "seeker", Rating: 2}))

	seeker := testutil.GetUser(t, store, "seeker")
	assert.Equal(t, 2.0, seeker.Rating)
	assert.Equal(t, 1, seeker.ReviewCount)

	reviews, err := uc.TaskReviews(ctx, id)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Sara", reviews[0].ReviewerName)
	assert.Equal(t, "Hugo", reviews[0].RevieweeName)
	assert.Equal(t, domain.ReviewHelperToSeeker, reviews[1].Type)
}

func TestCreateReview_Rejections(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	completed := seedTask(t, store, domain.StatusCompleted, "helper")
	assigned := seedTask(t, store, domain.StatusAssigned, "helper")
	open := seedTask(t, store, domain.StatusOpen, "")

	tests := []struct {
		name   string
		caller string
		in     ReviewInput
		want   error
	}{
		{"anonymous", "", ReviewInput{TaskID: completed, RevieweeID: "helper", Rating: 4}, domain.ErrUnauthenticated},
		{"rating too low", "seeker", ReviewInput{TaskID: completed, RevieweeID: "helper", Rating: 0}, domain.ErrInvalidRating},
		{"rating too high", "seeker", ReviewInput{TaskID: completed, RevieweeID: "helper", Rating: 6}, domain.ErrInvalidRating},
		{"unknown task", "seeker", ReviewInput{TaskID: "missing", RevieweeID: "helper", Rating: 4}, domain.ErrTaskNotFound},
		{"not a participant", "other", ReviewInput{TaskID: completed, RevieweeID: "helper", Rating: 4}, domain.ErrForbidden},
		{"task not completed", "seeker", ReviewInput{TaskID: assigned, RevieweeID: "helper", Rating: 4}, domain.ErrInvalidState},
		{"outsider on open task", "other", ReviewInput{TaskID: open, RevieweeID: "seeker", Rating: 4}, domain.ErrForbidden},
		{"seeker on open task", "seeker", ReviewInput{TaskID: open, RevieweeID: "helper", Rating: 4}, domain.ErrInvalidState},
		{"self review", "seeker", ReviewInput{TaskID: completed, RevieweeID: "seeker", Rating: 4}, domain.ErrReviewTarget},
		{"outsider reviewee", "seeker", ReviewInput{TaskID: completed, RevieweeID: "other", Rating: 4}, domain.ErrReviewTarget},
		{"wrong direction", "seeker", ReviewInput{
			TaskID: completed, RevieweeID: "helper", Rating: 4, Type: domain.ReviewHelperToSeeker,
		}, domain.ErrReviewTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, uc.CreateReview(ctx, tt.caller, tt.in), tt.want)
		})
	}

	helper := testutil.GetUser(t, store, "helper")
	assert.Equal(t, 0, helper.ReviewCount)
}

func TestCreateReview_Duplicate(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	id := seedTask(t, store, domain.StatusCompleted, "helper")

	in := ReviewInput{TaskID: id, RevieweeID: "helper", Rating: 4}
	require.NoError(t, uc.CreateReview(ctx, "seeker", in))
	assert.ErrorIs(t, uc.CreateReview(ctx, "seeker", in), domain.ErrAlreadyReviewed)

	helper := testutil.GetUser(t, store, "helper")
	assert.Equal(t, 1, helper.ReviewCount)
}

func TestUserReviews_Fallbacks(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	repos := store.Repositories()

	id := seedTask(t, store, domain.StatusCompleted, "helper")
	require.NoError(t, uc.CreateReview(ctx, "seeker", ReviewInput{TaskID: id, RevieweeID: "helper", Rating: 5}))
	require.NoError(t, repos.Reviews.Create(ctx, &domain.Review{
		TaskID:     "gone",
		ReviewerID: "ghost",
		RevieweeID: "helper",
		Rating:     3,
		Type:       domain.ReviewSeekerToHelper,
	}))

	views, err := uc.UserReviews(ctx, "helper")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, domain.AnonymousName, views[0].ReviewerName)
	assert.Equal(t, domain.UnknownTaskTitle, views[0].TaskTitle)
	assert.Equal(t, "Sara", views[1].ReviewerName)
	assert.Equal(t, "Fix the fence", views[1].TaskTitle)

	empty, err := uc.UserReviews(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAwardCompletion(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	err := store.Transact(ctx, func(ctx context.Context, repos repository.Repositories) error {
		entry, err := AwardCompletion(ctx, repos, &domain.Task{ID: "t1", HelperID: "helper", RewardPoints: 20}, at)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, domain.CompletionReason, entry.Reason)

		entry, err = AwardCompletion(ctx, repos, &domain.Task{ID: "t2", RewardPoints: 20}, at)
		require.NoError(t, err)
		assert.Nil(t, entry)

		entry, err = AwardCompletion(ctx, repos, &domain.Task{ID: "t3", HelperID: "vanished", RewardPoints: 7}, at)
		require.NoError(t, err)
		require.NotNil(t, entry)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 20, testutil.GetUser(t, store, "helper").TotalPoints)

	uc := New(store, nil)
	ledger, err := uc.PointsHistory(ctx, "helper")
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "t1", ledger[0].TaskID)

	orphan, err := uc.PointsHistory(ctx, "vanished")
	require.NoError(t, err)
	assert.Len(t, orphan, 1)

	anonymous, err := uc.PointsHistory(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, anonymous)
	assert.Empty(t, anonymous)
}

func TestRecordRating_MissingUser(t *testing.T) {
	_, store := setup(t)
	user, err := RecordRating(context.Background(), store.Repositories().Users, "nobody", 5)
	require.NoError(t, err)
	assert.Nil(t, user)
}
