package domain

import (
	"strings"
	"time"
)

// Category is the closed set of help request kinds.
type Category string

const (
	CategoryHousehold Category = "household"
	CategoryPets      Category = "pets"
	CategoryElderly   Category = "elderly"
	CategoryDigital   Category = "digital"
	CategoryErrands   Category = "errands"
	CategoryOther     Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryHousehold, CategoryPets, CategoryElderly, CategoryDigital, CategoryErrands, CategoryOther:
		return true
	}
	return false
}

// Task represents a help request posted by a seeker.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     Category   `json:"category"`
	SeekerID     string     `json:"seeker_id"`
	HelperID     string     `json:"helper_id,omitempty"`
	Location     Location   `json:"location"`
	ScheduledAt  *time.Time `json:"scheduled_time,omitempty"`
	RewardPoints int        `json:"reward_points"`
	Status       Status     `json:"status"`
	Applicants   []string   `json:"applicants"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTaskInput carries the seeker-supplied fields of a new task.
type NewTaskInput struct {
	Title        string
	Description  string
	Category     Category
	Location     Location
	ScheduledAt  *time.Time
	RewardPoints int
}

// RewardPolicy bounds reward points. Zero values disable the bound; negative
// rewards are always rejected since point totals never go below zero.
type RewardPolicy struct {
	Min int
	Max int
}

func (p RewardPolicy) Allows(points int) bool {
	if points < 0 {
		return false
	}
	if p.Min > 0 && points < p.Min {
		return false
	}
	if p.Max > 0 && points > p.Max {
		return false
	}
	return true
}

// NewTask builds an open task owned by seekerID.
func NewTask(id, seekerID string, in NewTaskInput, policy RewardPolicy) (*Task, error) {
	if seekerID == "" {
		return nil, ErrUnauthenticated
	}
	if !in.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if !policy.Allows(in.RewardPoints) {
		return nil, ErrRewardOutOfRange
	}
	return &Task{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		SeekerID:     seekerID,
		Location:     in.Location,
		ScheduledAt:  in.ScheduledAt,
		RewardPoints: in.RewardPoints,
		Status:       StatusOpen,
		Applicants:   []string{},
	}, nil
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsParticipant reports whether userID is the seeker or the assigned helper.
func (t *Task) IsParticipant(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	return t.SeekerID == userID || (t.HelperID != "" && t.HelperID == userID)
}

// Counterpart returns the other participant for userID. It is empty when
// userID is the seeker and no helper is assigned yet.
func (t *Task) Counterpart(userID string) string {
	if t == nil {
		return ""
	}
	if t.SeekerID == userID {
		return t.HelperID
	}
	return t.SeekerID
}

func (t *Task) HasApplicant(userID string) bool {
	if t == nil {
		return false
	}
	for _, id := range t.Applicants {
		if id == userID {
			return true
		}
	}
	return false
}

// Consistent checks the helper/status invariant and applicant uniqueness.
func (t *Task) Consistent() bool {
	if t == nil {
		return false
	}
	if (t.HelperID != "") != t.Status.HasHelper() {
		return false
	}
	seen := make(map[string]struct{}, len(t.Applicants))
	for _, id := range t.Applicants {
		if id == t.SeekerID {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// Apply appends userID to the applicants, preserving insertion order.
func (t *Task) Apply(userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if t.Status != StatusOpen {
		return ErrInvalidState
	}
	if !CanAct(userID, t, ActionApply) {
		return ErrSelfApplication
	}
	if t.HasApplicant(userID) {
		return ErrDuplicateApplication
	}
	t.Applicants = append(t.Applicants, userID)
	return nil
}

// Assign selects helperID among the applicants on behalf of the seeker.
func (t *Task) Assign(callerID, helperID string) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	if !CanAct(callerID, t, ActionAssign) {
		return ErrForbidden
	}
	if !t.Status.CanTransitionTo(StatusAssigned) {
		return ErrInvalidState
	}
	if helperID == "" || !t.HasApplicant(helperID) {
		return ErrNotAnApplicant
	}
	t.HelperID = helperID
	t.Status = StatusAssigned
	return nil
}

// Start moves an assigned task into progress; only the helper may do it.
func (t *Task) Start(callerID string) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	if !CanAct(callerID, t, ActionStart) {
		return ErrForbidden
	}
	if t.Status != StatusAssigned {
		return ErrInvalidState
	}
	t.Status = StatusInProgress
	return nil
}

// Complete marks the task done by either participant.
func (t *Task) Complete(callerID string, now time.Time) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	if !CanAct(callerID, t, ActionComplete) {
		return ErrForbidden
	}
	if !t.Status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidState
	}
	t.Status = StatusCompleted
	t.CompletedAt = &now
	return nil
}
