// Package testutil provides stores and fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository/bolt"
)

// Clock is a deterministic time source that advances by step on every call.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// NewStore opens a bolt store in a temp dir with a stepping clock so that
// records created back to back get distinct, ordered timestamps.
func NewStore(t testing.TB) *bolt.Store {
	t.Helper()
	clock := NewClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), time.Second)
	store, err := bolt.Open(filepath.Join(t.TempDir(), "neighborly.db"), bolt.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Profile builds a complete, active profile located at lat/lng.
func Profile(id, name string, role domain.Role, lat, lng float64) domain.User {
	return domain.User{
		ID:       id,
		Name:     name,
		Email:    id + "@example.com",
		Role:     role,
		Location: &domain.Location{Lat: lat, Lng: lng, Address: name + "'s place"},
		Skills:   []string{"gardening"},
		Rating:   domain.DefaultRating,
		Active:   true,
	}
}

// SeedUsers stores the given profiles.
func SeedUsers(t testing.TB, store *bolt.Store, users ...domain.User) {
	t.Helper()
	repo := store.Repositories().Users
	for i := range users {
		require.NoError(t, repo.Upsert(context.Background(), &users[i]))
	}
}

// GetUser reads a stored user and fails the test if it is missing.
func GetUser(t testing.TB, store *bolt.Store, id string) *domain.User {
	t.Helper()
	user, err := store.Repositories().Users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

// GetTask reads a stored task and fails the test if it is missing.
func GetTask(t testing.TB, store *bolt.Store, id string) *domain.Task {
	t.Helper()
	task, err := store.Repositories().Tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}
