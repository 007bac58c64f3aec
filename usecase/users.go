package usecase

import (
	"context"
	"errors"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

// UserLookup memoizes user reads while one response is being enriched.
// Missing users resolve to nil so views degrade instead of failing.
type UserLookup struct {
	users repository.UserRepository
	seen  map[string]*domain.User
}

func NewUserLookup(users repository.UserRepository) *UserLookup {
	return &UserLookup{users: users, seen: make(map[string]*domain.User)}
}

// Get returns the user or nil when it does not exist. Store failures are returned.
func (l *UserLookup) Get(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, nil
	}
	if user, ok := l.seen[id]; ok {
		return user, nil
	}
	user, err := l.users.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user = nil
	}
	l.seen[id] = user
	return user, nil
}

// Summary returns the user's summary or nil when the user does not exist.
func (l *UserLookup) Summary(ctx context.Context, id string) (*domain.UserSummary, error) {
	user, err := l.Get(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// Name returns the display name or fallback.
func (l *UserLookup) Name(ctx context.Context, id, fallback string) (string, error) {
	user, err := l.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return user.DisplayName(fallback), nil
}
