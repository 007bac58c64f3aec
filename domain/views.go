package domain

// TaskView is a task enriched with denormalized participant summaries.
type TaskView struct {
	Task
	Seeker            *UserSummary  `json:"seeker"`
	Helper            *UserSummary  `json:"helper,omitempty"`
	ApplicantProfiles []UserSummary `json:"applicant_profiles,omitempty"`
	DistanceKm        *float64      `json:"distance_km,omitempty"`
	DistanceLabel     string        `json:"distance_label,omitempty"`
}

// MessageView is a message plus the sender's display name.
type MessageView struct {
	Message
	SenderName string `json:"sender_name"`
}

// ReviewView is a review enriched for profile and task pages.
type ReviewView struct {
	Review
	ReviewerName string `json:"reviewer_name"`
	RevieweeName string `json:"reviewee_name,omitempty"`
	TaskTitle    string `json:"task_title,omitempty"`
}

// Fallbacks used when related records are missing.
const (
	UnknownName      = unknownName
	AnonymousName    = "Anonymous"
	UnknownTaskTitle = "Unknown Task"
)
