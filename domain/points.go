package domain

import "time"

// CompletionReason is recorded on ledger entries created by task completion.
const CompletionReason = "Task completed"

// PointsEntry is an append-only audit record of a points award.
type PointsEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TaskID    string    `json:"task_id"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	AwardedAt time.Time `json:"awarded_at"`
}
