package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/neighborly/repository"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres-backed document store. Mutating use cases lock the
// rows they modify with SELECT ... FOR UPDATE inside Transact.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Repositories() repository.Repositories {
	return reposFor(s.pool)
}

func (s *Store) Transact(ctx context.Context, fn repository.TxFunc) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, reposFor(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func reposFor(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:    NewUserRepository(db),
		Tasks:    NewTaskRepository(db),
		Messages: NewMessageRepository(db),
		Reviews:  NewReviewRepository(db),
		Points:   NewPointsRepository(db),
	}
}

var _ repository.Store = (*Store)(nil)
