// Package auth bridges the external identity provider to local sessions.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

type UseCase struct {
	store    repository.Store
	sessions repository.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func New(store repository.Store, sessions repository.SessionRepository, ttl time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UseCase{
		store:    store,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Login opens a session for an identity-provider user id, creating the
// identity-linked placeholder record on first sight.
func (uc *UseCase) Login(ctx context.Context, userID, userAgent string) (*domain.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := uc.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	uc.logger.Info("session opened", zap.String("user_id", userID), zap.String("session_id", session.ID))
	return session, nil
}

// Session returns a live session. Expired entries are removed.
func (uc *UseCase) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(uc.now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Refresh pushes the session expiry a full TTL into the future.
func (uc *UseCase) Refresh(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, uc.ttl); err != nil {
		return nil, err
	}
	session.ExpiresAt = uc.now().Add(uc.ttl)
	return session, nil
}

func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

func (uc *UseCase) TTL() time.Duration {
	return uc.ttl
}

func (uc *UseCase) ensureUser(ctx context.Context, userID string) error {
	return uc.store.Transact(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Users.GetForUpdate(ctx, userID)
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return repos.Users.Upsert(ctx, &domain.User{ID: userID})
	})
}
