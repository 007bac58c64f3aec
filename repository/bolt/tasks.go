package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

type taskRepository struct {
	base
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.view(func(tx *bbolt.Tx) error {
		found, err := getJSON(tx.Bucket(bucketTasks), []byte(id), &task)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrTaskNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetForUpdate(ctx context.Context, id string) (*domain.Task, error) {
	return r.GetByID(ctx, id)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTasks).ForEach(func(k, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			if matchTask(&task, filter) {
				tasks = append(tasks, task)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Applicants == nil {
		task.Applicants = []string{}
	}
	now := r.timestamp()
	task.CreatedAt = now
	task.UpdatedAt = now

	return r.update(func(tx *bbolt.Tx) error {
		return putJSON(tx.Bucket(bucketTasks), []byte(task.ID), task)
	})
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTasks)
		if bucket.Get([]byte(task.ID)) == nil {
			return domain.ErrTaskNotFound
		}
		task.UpdatedAt = r.timestamp()
		return putJSON(bucket, []byte(task.ID), task)
	})
}

func matchTask(task *domain.Task, filter repository.TaskFilter) bool {
	switch {
	case filter.SeekerID != "" && task.SeekerID != filter.SeekerID:
		return false
	case filter.HelperID != "" && task.HelperID != filter.HelperID:
		return false
	case filter.Status != "" && task.Status != filter.Status:
		return false
	case filter.Category != "" && task.Category != filter.Category:
		return false
	case filter.ExcludeSeekerID != "" && task.SeekerID == filter.ExcludeSeekerID:
		return false
	case filter.Box != nil && !filter.Box.Contains(task.Location.Lat, task.Location.Lng):
		return false
	}
	return true
}
