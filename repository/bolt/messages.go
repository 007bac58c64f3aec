package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/neighborly/domain"
)

// Messages are keyed task|created_at|id so a prefix scan yields one task's
// history in chronological order.
type messageRepository struct {
	base
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	if message == nil || message.TaskID == "" {
		return domain.ErrInvalidPayload
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = r.timestamp()
	}
	key := compositeKey(message.TaskID, sortable(message.CreatedAt), message.ID)
	return r.update(func(tx *bbolt.Tx) error {
		return putJSON(tx.Bucket(bucketMessages), key, message)
	})
}

func (r *messageRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.view(func(tx *bbolt.Tx) error {
		return scanPrefix(tx.Bucket(bucketMessages), prefixKey(taskID), func(k, v []byte) error {
			var msg domain.Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			messages = append(messages, msg)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, taskID, receiverID string) (int, error) {
	var changed int
	err := r.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMessages)

		type pending struct {
			key []byte
			msg domain.Message
		}
		var updates []pending
		err := scanPrefix(bucket, prefixKey(taskID), func(k, v []byte) error {
			var msg domain.Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			if msg.ReceiverID == receiverID && !msg.Read {
				msg.Read = true
				updates = append(updates, pending{key: append([]byte(nil), k...), msg: msg})
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Writes happen after the scan; mutating a bucket invalidates open cursors.
		for _, u := range updates {
			if err := putJSON(bucket, u.key, u.msg); err != nil {
				return err
			}
		}
		changed = len(updates)
		return nil
	})
	return changed, err
}
