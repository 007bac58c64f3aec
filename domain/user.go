package domain

import "time"

// Role describes how a user takes part in the exchange.
type Role string

const (
	RoleHelper Role = "helper"
	RoleSeeker Role = "seeker"
	RoleBoth   Role = "both"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleHelper, RoleSeeker, RoleBoth:
		return true
	}
	return false
}

const (
	// DefaultRating is reported for users that were never reviewed.
	DefaultRating = 5.0

	unknownName = "Unknown"
)

// User represents an identity-linked profile in the platform.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Role        Role      `json:"user_type,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	TotalPoints int       `json:"total_points"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Active
}

// IsProfileComplete reports whether profile setup has been finished.
func (u *User) IsProfileComplete() bool {
	return u != nil && u.Name != "" && u.Email != "" && u.Location != nil
}

// Reputation returns the rating aggregate, seeding unrated users with the default.
func (u *User) Reputation() (float64, int) {
	if u == nil || u.ReviewCount == 0 || u.Rating == 0 {
		return DefaultRating, 0
	}
	return u.Rating, u.ReviewCount
}

// UserSummary is the denormalized view of a user embedded in other records.
type UserSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Skills      []string `json:"skills,omitempty"`
}

// Summary builds a summary with read-side defaults.
func (u *User) Summary() UserSummary {
	rating, count := u.Reputation()
	s := UserSummary{Name: unknownName, Rating: rating, ReviewCount: count}
	if u == nil {
		return s
	}
	s.ID = u.ID
	if u.Name != "" {
		s.Name = u.Name
	}
	return s
}

// SummaryWithSkills is Summary plus the user's skill tags.
func (u *User) SummaryWithSkills() UserSummary {
	s := u.Summary()
	s.Skills = []string{}
	if u != nil && len(u.Skills) > 0 {
		s.Skills = append(s.Skills, u.Skills...)
	}
	return s
}

// DisplayName returns the user's name or the fallback when absent.
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}
	return u.Name
}
