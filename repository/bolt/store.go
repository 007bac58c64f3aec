// Package bolt implements the document store on an embedded BoltDB file.
// BoltDB allows a single writer at a time, so every Transact call is
// serialized and read-modify-write cycles cannot interleave.
package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/neighborly/repository"
)

var (
	bucketUsers      = []byte("users")
	bucketTasks      = []byte("tasks")
	bucketMessages   = []byte("messages")
	bucketReviews    = []byte("reviews")
	bucketReviewKeys = []byte("review_keys")
	bucketPoints     = []byte("points")

	allBuckets = [][]byte{bucketUsers, bucketTasks, bucketMessages, bucketReviews, bucketReviewKeys, bucketPoints}
)

// Store wraps BoltDB and exposes it through the repository ports.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open initializes the BoltDB file and ensures every bucket exists.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Repositories returns repositories that open their own short transactions.
func (s *Store) Repositories() repository.Repositories {
	return s.reposFor(nil)
}

// Transact runs fn inside one read-write transaction.
func (s *Store) Transact(ctx context.Context, fn repository.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(ctx, s.reposFor(tx))
	})
}

// Ping reports whether the database file is still open.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketTasks) == nil {
			return bbolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) reposFor(tx *bbolt.Tx) repository.Repositories {
	b := base{db: s.db, tx: tx, now: s.now}
	return repository.Repositories{
		Users:    &userRepository{base: b},
		Tasks:    &taskRepository{base: b},
		Messages: &messageRepository{base: b},
		Reviews:  &reviewRepository{base: b},
		Points:   &pointsRepository{base: b},
	}
}

var _ repository.Store = (*Store)(nil)
