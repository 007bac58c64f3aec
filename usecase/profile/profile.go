// Package profile manages user profiles and helper discovery.
package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

type UseCase struct {
	store         repository.Store
	defaultRadius float64
	logger        *zap.Logger
}

func New(store repository.Store, defaultRadiusKm float64, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = domain.DefaultRadiusKm
	}
	return &UseCase{
		store:         store,
		defaultRadius: defaultRadiusKm,
		logger:        logger,
	}
}

// Input holds the fields required to complete a profile.
type Input struct {
	Name     string
	Email    string
	Bio      string
	Role     domain.Role
	Location domain.Location
	Skills   []string
}

// Update is a partial profile change; nil fields are left untouched.
type Update struct {
	Name     *string
	Bio      *string
	Role     *domain.Role
	Location *domain.Location
	Skills   *[]string
}

// CurrentUser returns the caller's profile, or nil when the caller is
// anonymous, unknown, or has not finished profile setup.
func (uc *UseCase) CurrentUser(ctx context.Context, callerID string) (*domain.User, error) {
	if callerID == "" {
		return nil, nil
	}
	user, err := uc.store.Repositories().Users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsProfileComplete() {
		return nil, nil
	}
	return user, nil
}

// GetUser returns a public profile by id.
func (uc *UseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.store.Repositories().Users.GetByID(ctx, id)
}

// CreateProfile completes the caller's identity-linked record, creating it
// when no placeholder exists yet.
func (uc *UseCase) CreateProfile(ctx context.Context, callerID string, in Input) (string, error) {
	if callerID == "" {
		return "", domain.ErrUnauthenticated
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return "", domain.ErrInvalidPayload
	}
	if !in.Role.IsValid() {
		return "", domain.ErrInvalidRole
	}

	err := uc.store.Transact(ctx, func(ctx context.Context, repos repository.Repositories) error {
		user, err := repos.Users.GetForUpdate(ctx, callerID)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			user = &domain.User{ID: callerID}
		case err != nil:
			return err
		case user.Name != "" && user.Email != "":
			return domain.ErrProfileExists
		}

		location := in.Location
		user.Name = in.Name
		user.Email = in.Email
		user.Bio = in.Bio
		user.Role = in.Role
		user.Location = &location
		user.Skills = normalizeSkills(in.Skills)
		user.TotalPoints = 0
		user.Rating = domain.DefaultRating
		user.ReviewCount = 0
		user.Active = true
		return repos.Users.Upsert(ctx, user)
	})
	if err != nil {
		return "", err
	}

	uc.logger.Info("profile created", zap.String("user_id", callerID), zap.String("role", string(in.Role)))
	return callerID, nil
}

// UpdateProfile patches the caller's profile.
func (uc *UseCase) UpdateProfile(ctx context.Context, callerID string, patch Update) (string, error) {
	if callerID == "" {
		return "", domain.ErrUnauthenticated
	}
	if patch.Role != nil && !patch.Role.IsValid() {
		return "", domain.ErrInvalidRole
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return "", domain.ErrInvalidPayload
	}

	err := uc.store.Transact(ctx, func(ctx context.Context, repos repository.Repositories) error {
		user, err := repos.Users.GetForUpdate(ctx, callerID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			user.Name = *patch.Name
		}
		if patch.Bio != nil {
			user.Bio = *patch.Bio
		}
		if patch.Role != nil {
			user.Role = *patch.Role
		}
		if patch.Location != nil {
			location := *patch.Location
			user.Location = &location
		}
		if patch.Skills != nil {
			user.Skills = normalizeSkills(*patch.Skills)
		}
		return repos.Users.Upsert(ctx, user)
	})
	if err != nil {
		return "", err
	}

	uc.logger.Info("profile updated", zap.String("user_id", callerID))
	return callerID, nil
}

// NearbyQuery is a helper search around a point.
type NearbyQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// NearbyHelpers lists active helper profiles located inside the query box.
func (uc *UseCase) NearbyHelpers(ctx context.Context, q NearbyQuery) ([]domain.User, error) {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = uc.defaultRadius
	}
	box := domain.NewBoundingBox(q.Lat, q.Lng, radius)
	users, err := uc.store.Repositories().Users.List(ctx, repository.UserFilter{
		Role:       domain.RoleHelper,
		ActiveOnly: true,
		Box:        &box,
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// normalizeSkills trims tags and drops blanks and duplicates, keeping order.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out
}
