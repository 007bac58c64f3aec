package domain

// Action names a mutation or read a caller may attempt on a task.
type Action string

const (
	ActionView         Action = "view"
	ActionApply        Action = "apply"
	ActionAssign       Action = "assign"
	ActionStart        Action = "start"
	ActionComplete     Action = "complete"
	ActionSendMessage  Action = "send_message"
	ActionReadMessages Action = "read_messages"
	ActionReview       Action = "review"
)

// CanAct decides from the stored task alone whether userID holds the
// relationship the action requires. Status preconditions are checked separately.
func CanAct(userID string, task *Task, action Action) bool {
	if task == nil {
		return false
	}
	if action == ActionView {
		return true
	}
	if userID == "" {
		return false
	}

	switch action {
	case ActionApply:
		return task.SeekerID != userID
	case ActionAssign:
		return task.SeekerID == userID
	case ActionStart:
		return task.HelperID == userID
	case ActionComplete, ActionSendMessage, ActionReadMessages, ActionReview:
		return task.IsParticipant(userID)
	default:
		return false
	}
}
