package transport

import "time"

type LocationPayload struct {
	Lat     float64 `json:"lat" validate:"latitude"`
	Lng     float64 `json:"lng" validate:"longitude"`
	Address string  `json:"address" validate:"max=300"`
}

type CreateTaskRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=4000"`
	Category      string          `json:"category" validate:"required"`
	Location      LocationPayload `json:"location"`
	ScheduledTime *time.Time      `json:"scheduled_time"`
	RewardPoints  int             `json:"reward_points" validate:"gte=0"`
}

type AssignTaskRequest struct {
	HelperID string `json:"helper_id" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// CreateReviewRequest leaves rating range checks to the reputation rules so
// they surface as INVALID_RATING.
type CreateReviewRequest struct {
	TaskID     string `json:"task_id" validate:"required"`
	RevieweeID string `json:"reviewee_id" validate:"required"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment" validate:"max=2000"`
	ReviewType string `json:"review_type" validate:"omitempty,oneof=helper_to_seeker seeker_to_helper"`
}

type CreateProfileRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Bio      string          `json:"bio" validate:"max=1000"`
	UserType string          `json:"user_type" validate:"required,oneof=helper seeker both"`
	Location LocationPayload `json:"location"`
	Skills   []string        `json:"skills" validate:"max=30,dive,max=50"`
}

type UpdateProfileRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Bio      *string          `json:"bio" validate:"omitempty,max=1000"`
	UserType *string          `json:"user_type" validate:"omitempty,oneof=helper seeker both"`
	Location *LocationPayload `json:"location"`
	Skills   *[]string        `json:"skills" validate:"omitempty,max=30,dive,max=50"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}
