package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusOpen       Status = "open"        // Accepting applications
	StatusAssigned   Status = "assigned"    // Helper selected
	StatusInProgress Status = "in_progress" // Helper started working
	StatusCompleted  Status = "completed"   // Done, points awarded
	StatusCancelled  Status = "cancelled"   // Withdrawn by the seeker
)

// transitions defines the allowed status transitions.
// Flow: open → assigned → in_progress → completed
//
//	│          └──────────────────────↑
//	└→ cancelled
//
// No operation produces cancelled yet; the edge is kept so stored data stays valid.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// HasHelper reports whether a task in this status must carry a helper.
func (s Status) HasHelper() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
