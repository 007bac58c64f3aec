package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

type userRepository struct {
	base
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.view(func(tx *bbolt.Tx) error {
		found, err := getJSON(tx.Bucket(bucketUsers), []byte(id), &user)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var users []domain.User
	err := r.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(k, v []byte) error {
			var user domain.User
			if err := json.Unmarshal(v, &user); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			if filter.Role != "" && user.Role != filter.Role {
				return nil
			}
			if filter.ActiveOnly && !user.IsActive() {
				return nil
			}
			if filter.Box != nil && !filter.Box.ContainsLocation(user.Location) {
				return nil
			}
			users = append(users, user)
			return nil
		})
	})
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, err
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUsers)
		var existing domain.User
		found, err := getJSON(bucket, []byte(user.ID), &existing)
		if err != nil {
			return err
		}
		now := r.timestamp()
		switch {
		case found && !existing.CreatedAt.IsZero():
			user.CreatedAt = existing.CreatedAt
		case user.CreatedAt.IsZero():
			user.CreatedAt = now
		}
		user.UpdatedAt = now
		return putJSON(bucket, []byte(user.ID), user)
	})
}
