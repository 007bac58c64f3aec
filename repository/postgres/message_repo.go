package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

type messageRepository struct {
	db DBTX
}

// NewMessageRepository returns a Postgres-backed MessageRepository.
func NewMessageRepository(db DBTX) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	if message == nil {
		return domain.ErrInvalidPayload
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO messages (id, task_id, sender_id, receiver_id, content, message_type, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
	RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		message.ID,
		message.TaskID,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		string(message.Type),
		message.Read,
		nullTime(message.CreatedAt),
	).Scan(&message.CreatedAt)
}

func (r *messageRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Message, error) {
	const query = `
	SELECT id, task_id, sender_id, receiver_id, content, message_type, is_read, created_at
	FROM messages
	WHERE task_id = $1
	ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			msg  domain.Message
			kind string
		)
		if err := rows.Scan(&msg.ID, &msg.TaskID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &kind, &msg.Read, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Type = domain.MessageType(kind)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, taskID, receiverID string) (int, error) {
	const query = `UPDATE messages SET is_read = TRUE WHERE task_id = $1 AND receiver_id = $2 AND NOT is_read`
	tag, err := r.db.Exec(ctx, query, taskID, receiverID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
