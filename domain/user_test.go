package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Reputation(t *testing.T) {
	var missing *User
	rating, count := missing.Reputation()
	assert.Equal(t, DefaultRating, rating)
	assert.Zero(t, count)

	rating, count = (&User{}).Reputation()
	assert.Equal(t, DefaultRating, rating)
	assert.Zero(t, count)

	rating, count = (&User{Rating: 3.5, ReviewCount: 2}).Reputation()
	assert.Equal(t, 3.5, rating)
	assert.Equal(t, 2, count)
}

func TestUser_Summary(t *testing.T) {
	var missing *User
	assert.Equal(t, UserSummary{Name: "Unknown", Rating: DefaultRating}, missing.Summary())

	user := &User{ID: "u1", Name: "Ada", Rating: 4.2, ReviewCount: 5, Skills: []string{"tech"}}
	assert.Equal(t, UserSummary{ID: "u1", Name: "Ada", Rating: 4.2, ReviewCount: 5}, user.Summary())
	assert.Equal(t, []string{"tech"}, user.SummaryWithSkills().Skills)
	assert.NotNil(t, (&User{ID: "u2"}).SummaryWithSkills().Skills)
}

func TestUser_IsProfileComplete(t *testing.T) {
	assert.False(t, (*User)(nil).IsProfileComplete())
	assert.False(t, (&User{Name: "Ada", Email: "ada@example.com"}).IsProfileComplete())
	assert.True(t, (&User{Name: "Ada", Email: "ada@example.com", Location: &Location{}}).IsProfileComplete())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleHelper.IsValid())
	assert.True(t, RoleSeeker.IsValid())
	assert.True(t, RoleBoth.IsValid())
	assert.False(t, Role("admin").IsValid())
}

func TestUser_IsActive(t *testing.T) {
	var missing *User
	assert.False(t, missing.IsActive())
	assert.False(t, (&User{}).IsActive())
	assert.True(t, (&User{Active: true}).IsActive())
}
