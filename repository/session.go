package repository

import (
	"context"
	"time"

	"github.com/fastygo/neighborly/domain"
)

// SessionRepository caches identity sessions issued at login.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttl time.Duration) error
}
