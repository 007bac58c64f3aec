package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/neighborly/domain"
)

type pointsRepository struct {
	base
}

func (r *pointsRepository) Append(ctx context.Context, entry *domain.PointsEntry) error {
	if entry == nil || entry.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.AwardedAt.IsZero() {
		entry.AwardedAt = r.timestamp()
	}
	key := compositeKey(entry.UserID, sortable(entry.AwardedAt), entry.ID)
	return r.update(func(tx *bbolt.Tx) error {
		return putJSON(tx.Bucket(bucketPoints), key, entry)
	})
}

func (r *pointsRepository) ListByUser(ctx context.Context, userID string) ([]domain.PointsEntry, error) {
	entries := []domain.PointsEntry{}
	err := r.view(func(tx *bbolt.Tx) error {
		return scanPrefix(tx.Bucket(bucketPoints), prefixKey(userID), func(k, v []byte) error {
			var entry domain.PointsEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
