package repository

import (
	"context"

	"github.com/fastygo/neighborly/domain"
)

// TaskFilter narrows task scans. Empty fields match everything; results are
// ordered newest first.
type TaskFilter struct {
	SeekerID        string
	HelperID        string
	Status          domain.Status
	Category        domain.Category
	ExcludeSeekerID string
	Box             *domain.BoundingBox
	Limit           int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// GetForUpdate reads the task and holds it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
}
