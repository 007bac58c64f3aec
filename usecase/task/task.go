// Package task drives the task lifecycle: creation, proximity search,
// applications, assignment and completion.
package task

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
	"github.com/fastygo/neighborly/usecase"
	"github.com/fastygo/neighborly/usecase/reputation"
)

// Direction selects which side of the caller's tasks MyTasks returns.
type Direction string

const (
	DirectionPosted  Direction = "posted"
	DirectionHelping Direction = "helping"
)

func (d Direction) IsValid() bool {
	return d == DirectionPosted || d == DirectionHelping
}

// Options tunes task creation and search.
type Options struct {
	RewardPolicy    domain.RewardPolicy
	DefaultRadiusKm float64
}

type UseCase struct {
	store         repository.Store
	policy        domain.RewardPolicy
	defaultRadius float64
	logger        *zap.Logger
	now           func() time.Time
}

func New(store repository.Store, opts Options, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = domain.DefaultRadiusKm
	}
	return &UseCase{
		store:         store,
		policy:        opts.RewardPolicy,
		defaultRadius: opts.DefaultRadiusKm,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateTask stores a new open task owned by the caller and returns its id.
func (uc *UseCase) CreateTask(ctx context.Context, callerID string, in domain.NewTaskInput) (string, error) {
	task, err := domain.NewTask("", callerID, in, uc.policy)
	if err != nil {
		return "", err
	}
	if err := uc.store.Repositories().Tasks.Create(ctx, task); err != nil {
		return "", err
	}
	uc.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("seeker_id", callerID),
		zap.String("category", string(task.Category)))
	return task.ID, nil
}

// NearbyQuery describes a proximity search. Zero radius uses the default.
type NearbyQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	Category domain.Category
}

// NearbyTasks returns open tasks inside the query box, skipping the caller's
// own tasks, nearest first.
func (uc *UseCase) NearbyTasks(ctx context.Context, callerID string, q NearbyQuery) ([]domain.TaskView, error) {
	if q.Category != "" && !q.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	radius := q.RadiusKm
	if radius <= 0 {
		radius = uc.defaultRadius
	}
	box := domain.NewBoundingBox(q.Lat, q.Lng, radius)

	repos := uc.store.Repositories()
	tasks, err := repos.Tasks.List(ctx, repository.TaskFilter{
		Status:          domain.StatusOpen,
		Category:        q.Category,
		ExcludeSeekerID: callerID,
		Box:             &box,
	})
	if err != nil {
		return nil, err
	}

	lookup := usecase.NewUserLookup(repos.Users)
	views := make([]domain.TaskView, 0, len(tasks))
	for _, task := range tasks {
		seeker, err := lookup.Summary(ctx, task.SeekerID)
		if err != nil {
			return nil, err
		}
		distance := domain.Haversine(q.Lat, q.Lng, task.Location.Lat, task.Location.Lng)
		views = append(views, domain.TaskView{
			Task:          task,
			Seeker:        seekerOrUnknown(seeker, task.SeekerID),
			DistanceKm:    &distance,
			DistanceLabel: domain.FormatDistance(distance),
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return *views[i].DistanceKm < *views[j].DistanceKm
	})
	return views, nil
}

// MyTasks lists the caller's tasks as seeker or helper, newest first, each
// with the counterpart's summary. Anonymous callers get an empty list.
func (uc *UseCase) MyTasks(ctx context.Context, callerID string, direction Direction) ([]domain.TaskView, error) {
	if callerID == "" {
		return []domain.TaskView{}, nil
	}

	filter := repository.TaskFilter{SeekerID: callerID}
	switch direction {
	case DirectionPosted, "":
	case DirectionHelping:
		filter = repository.TaskFilter{HelperID: callerID}
	default:
		return nil, domain.ErrInvalidPayload
	}

	repos := uc.store.Repositories()
	tasks, err := repos.Tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	lookup := usecase.NewUserLookup(repos.Users)
	views := make([]domain.TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := domain.TaskView{Task: task}
		if direction == DirectionHelping {
			seeker, err := lookup.Summary(ctx, task.SeekerID)
			if err != nil {
				return nil, err
			}
			view.Seeker = seekerOrUnknown(seeker, task.SeekerID)
		} else {
			helper, err := lookup.Summary(ctx, task.HelperID)
			if err != nil {
				return nil, err
			}
			view.Helper = helper
		}
		views = append(views, view)
	}
	return views, nil
}

// GetTask returns the enriched task, or nil when it does not exist.
func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.TaskView, error) {
	repos := uc.store.Repositories()
	task, err := repos.Tasks.GetByID(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	lookup := usecase.NewUserLookup(repos.Users)
	seeker, err := lookup.Summary(ctx, task.SeekerID)
	if err != nil {
		return nil, err
	}
	helper, err := lookup.Summary(ctx, task.HelperID)
	if err != nil {
		return nil, err
	}

	applicants := make([]domain.UserSummary, 0, len(task.Applicants))
	for _, applicantID := range task.Applicants {
		user, err := lookup.Get(ctx, applicantID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		applicants = append(applicants, user.SummaryWithSkills())
	}

	return &domain.TaskView{
		Task:              *task,
		Seeker:            seekerOrUnknown(seeker, task.SeekerID),
		Helper:            helper,
		ApplicantProfiles: applicants,
	}, nil
}

// Apply adds the caller to the task's applicants.
func (uc *UseCase) Apply(ctx context.Context, callerID, taskID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	err := uc.mutate(ctx, taskID, func(ctx context.Context, repos repository.Repositories, task *domain.Task) error {
		return task.Apply(callerID)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("task application", zap.String("task_id", taskID), zap.String("user_id", callerID))
	return nil
}

// Assign hands the task to one of its applicants and notifies the helper.
func (uc *UseCase) Assign(ctx context.Context, callerID, taskID, helperID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	err := uc.mutate(ctx, taskID, func(ctx context.Context, repos repository.Repositories, task *domain.Task) error {
		if err := task.Assign(callerID, helperID); err != nil {
			return err
		}
		return repos.Messages.Create(ctx, &domain.Message{
			TaskID:     task.ID,
			SenderID:   task.SeekerID,
			ReceiverID: helperID,
			Content:    domain.AssignmentNotice,
			Type:       domain.MessageSystem,
		})
	})
	if err != nil {
		return err
	}
	uc.logger.Info("task assigned", zap.String("task_id", taskID), zap.String("helper_id", helperID))
	return nil
}

// Start moves an assigned task into progress on the helper's request.
func (uc *UseCase) Start(ctx context.Context, callerID, taskID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	err := uc.mutate(ctx, taskID, func(ctx context.Context, repos repository.Repositories, task *domain.Task) error {
		return task.Start(callerID)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("task started", zap.String("task_id", taskID))
	return nil
}

// Complete closes the task and credits the helper with its reward.
func (uc *UseCase) Complete(ctx context.Context, callerID, taskID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	var award *domain.PointsEntry
	err := uc.mutate(ctx, taskID, func(ctx context.Context, repos repository.Repositories, task *domain.Task) error {
		now := uc.now().UTC()
		if err := task.Complete(callerID, now); err != nil {
			return err
		}
		entry, err := reputation.AwardCompletion(ctx, repos, task, now)
		award = entry
		return err
	})
	if err != nil {
		return err
	}

	fields := []zap.Field{zap.String("task_id", taskID), zap.String("completed_by", callerID)}
	if award != nil {
		fields = append(fields, zap.String("helper_id", award.UserID), zap.Int("points", award.Points))
	}
	uc.logger.Info("task completed", fields...)
	return nil
}

type mutation func(ctx context.Context, repos repository.Repositories, task *domain.Task) error

// mutate locks the task, applies fn and persists the result in one transaction.
func (uc *UseCase) mutate(ctx context.Context, taskID string, fn mutation) error {
	err := uc.store.Transact(ctx, func(ctx context.Context, repos repository.Repositories) error {
		task, err := repos.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := fn(ctx, repos, task); err != nil {
			return err
		}
		return repos.Tasks.Update(ctx, task)
	})
	if domain.IsDomainError(err, domain.ErrCodeForbidden) {
		uc.logger.Warn("task mutation rejected", zap.String("task_id", taskID), zap.Error(err))
	}
	return err
}

// seekerOrUnknown keeps the seeker slot populated when the profile is gone.
func seekerOrUnknown(summary *domain.UserSummary, id string) *domain.UserSummary {
	if summary != nil {
		return summary
	}
	unknown := (*domain.User)(nil).Summary()
	unknown.ID = id
	return &unknown
}
