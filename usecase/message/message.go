// Package message is the chat gateway between a task's two participants.
package message

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
	"github.com/fastygo/neighborly/usecase"
)

type UseCase struct {
	store  repository.Store
	logger *zap.Logger
}

func New(store repository.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		logger: logger,
	}
}

// Send posts a text message from the caller to the task's other participant.
func (uc *UseCase) Send(ctx context.Context, callerID, taskID, content string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return domain.ErrEmptyMessage
	}

	repos := uc.store.Repositories()
	task, err := repos.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !domain.CanAct(callerID, task, domain.ActionSendMessage) {
		return domain.ErrForbidden
	}
	receiverID := task.Counterpart(callerID)
	if receiverID == "" {
		return domain.ErrNoRecipient
	}

	msg := &domain.Message{
		TaskID:     task.ID,
		SenderID:   callerID,
		ReceiverID: receiverID,
		Content:    content,
		Type:       domain.MessageText,
	}
	if err := repos.Messages.Create(ctx, msg); err != nil {
		return err
	}
	uc.logger.Debug("message sent", zap.String("task_id", task.ID), zap.String("message_id", msg.ID))
	return nil
}

// History returns the task's messages oldest first. Callers who are not
// participants, and unknown tasks, get an empty list.
func (uc *UseCase) History(ctx context.Context, callerID, taskID string) ([]domain.MessageView, error) {
	empty := []domain.MessageView{}
	if callerID == "" {
		return empty, nil
	}

	repos := uc.store.Repositories()
	task, err := repos.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return empty, nil
		}
		return nil, err
	}
	if !domain.CanAct(callerID, task, domain.ActionReadMessages) {
		return empty, nil
	}

	messages, err := repos.Messages.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	lookup := usecase.NewUserLookup(repos.Users)
	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		name, err := lookup.Name(ctx, msg.SenderID, domain.UnknownName)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.MessageView{Message: msg, SenderName: name})
	}
	return views, nil
}

// MarkRead flags every message on the task addressed to the caller as read.
func (uc *UseCase) MarkRead(ctx context.Context, callerID, taskID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	updated, err := uc.store.Repositories().Messages.MarkRead(ctx, taskID, callerID)
	if err != nil {
		return err
	}
	if updated > 0 {
		uc.logger.Debug("messages marked read", zap.String("task_id", taskID), zap.Int("count", updated))
	}
	return nil
}
