package repository

import "context"

// Repositories groups the record kinds of the document store.
type Repositories struct {
	Users    UserRepository
	Tasks    TaskRepository
	Messages MessageRepository
	Reviews  ReviewRepository
	Points   PointsRepository
}

// TxFunc runs inside one store transaction. Returning an error rolls it back.
type TxFunc func(ctx context.Context, repos Repositories) error

// Store is the transactional document store behind every use case.
// Transact must serialize conflicting read-modify-write cycles so that two
// transactions never both observe the same pre-image of a locked record.
type Store interface {
	Repositories() Repositories
	Transact(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close() error
}
