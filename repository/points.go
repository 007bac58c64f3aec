package repository

import (
	"context"

	"github.com/fastygo/neighborly/domain"
)

type PointsRepository interface {
	Append(ctx context.Context, entry *domain.PointsEntry) error
	// ListByUser returns the user's ledger newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.PointsEntry, error)
}
