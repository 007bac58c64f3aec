package repository

import (
	"context"

	"github.com/fastygo/neighborly/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// ListByTask returns the task's messages oldest first.
	ListByTask(ctx context.Context, taskID string) ([]domain.Message, error)
	// MarkRead flags unread messages on taskID addressed to receiverID and reports how many changed.
	MarkRead(ctx context.Context, taskID, receiverID string) (int, error)
}
