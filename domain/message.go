package domain

import "time"

// MessageType distinguishes user-authored chat from gateway notices.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageSystem MessageType = "system"
)

// AssignmentNotice is the system message sent to a newly assigned helper.
const AssignmentNotice = "Task has been assigned to you! You can now start working on it."

// Message is a chat line scoped to one task. Only Read ever changes.
type Message struct {
	ID         string      `json:"id"`
	TaskID     string      `json:"task_id"`
	SenderID   string      `json:"sender_id"`
	ReceiverID string      `json:"receiver_id"`
	Content    string      `json:"content"`
	Type       MessageType `json:"message_type"`
	Read       bool        `json:"is_read"`
	CreatedAt  time.Time   `json:"created_at"`
}
