package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAct(t *testing.T) {
	open := &Task{SeekerID: "seeker", Status: StatusOpen}
	assigned := &Task{SeekerID: "seeker", HelperID: "helper", Status: StatusAssigned}

	tests := []struct {
		name   string
		user   string
		task   *Task
		action Action
		want   bool
	}{
		{"anyone views", "", open, ActionView, true},
		{"nil task", "seeker", nil, ActionView, false},
		{"anonymous apply", "", open, ActionApply, false},
		{"other user applies", "alice", open, ActionApply, true},
		{"seeker applies", "seeker", open, ActionApply, false},
		{"seeker assigns", "seeker", open, ActionAssign, true},
		{"helper assigns", "helper", assigned, ActionAssign, false},
		{"helper starts", "helper", assigned, ActionStart, true},
		{"seeker starts", "seeker", assigned, ActionStart, false},
		{"seeker completes", "seeker", assigned, ActionComplete, true},
		{"helper completes", "helper", assigned, ActionComplete, true},
		{"outsider completes", "alice", assigned, ActionComplete, false},
		{"helper messages", "helper", assigned, ActionSendMessage, true},
		{"outsider reads", "alice", assigned, ActionReadMessages, false},
		{"seeker reviews", "seeker", assigned, ActionReview, true},
		{"no helper yet", "alice", open, ActionStart, false},
		{"unknown action", "seeker", open, Action("delete"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAct(tt.user, tt.task, tt.action))
		})
	}
}
