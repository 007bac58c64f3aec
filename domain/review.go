package domain

import (
	"math"
	"time"
)

// ReviewType is the direction of a review between the two participants.
type ReviewType string

const (
	ReviewHelperToSeeker ReviewType = "helper_to_seeker"
	ReviewSeekerToHelper ReviewType = "seeker_to_helper"
)

func (r ReviewType) IsValid() bool {
	return r == ReviewHelperToSeeker || r == ReviewSeekerToHelper
}

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one participant's rating of the other for one task.
type Review struct {
	ID         string     `json:"id"`
	TaskID     string     `json:"task_id"`
	ReviewerID string     `json:"reviewer_id"`
	RevieweeID string     `json:"reviewee_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment,omitempty"`
	Type       ReviewType `json:"review_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ValidRating reports whether value is an allowed star rating.
func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// ReviewDirection derives the review type from the reviewer's stored role on
// the task. ok is false when reviewerID is not a participant.
func ReviewDirection(task *Task, reviewerID string) (ReviewType, bool) {
	switch {
	case task == nil || reviewerID == "":
		return "", false
	case task.SeekerID == reviewerID:
		return ReviewSeekerToHelper, true
	case task.HelperID != "" && task.HelperID == reviewerID:
		return ReviewHelperToSeeker, true
	}
	return "", false
}

// ApplyRating folds one new score into a running mean. The result is rounded
// to one decimal place, so repeated folds drift from the exact mean.
func ApplyRating(mean float64, count int, value int) (float64, int) {
	if count < 0 {
		count = 0
	}
	next := (mean*float64(count) + float64(value)) / float64(count+1)
	return math.Round(next*10) / 10, count + 1
}
