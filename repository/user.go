package repository

import (
	"context"

	"github.com/fastygo/neighborly/domain"
)

// UserFilter selects profiles for proximity queries.
type UserFilter struct {
	Role       domain.Role
	ActiveOnly bool
	Box        *domain.BoundingBox
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetForUpdate reads the user and holds it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
