package services

import (
	"testing"

	"sangobot/models"

	"github.com/stretchr/testify/assert"
)

func TestEventFilter(t *testing.T) {
	filter := &EventFilter{SelfID: "bot1"}

	human := models.User{ID: "user1", Username: "taro"}
	automated := models.User{ID: "user2", Username: "robo", IsBot: true}
	self := models.User{ID: "bot1", Username: "sango"}

	note := func(user models.User, mentions ...string) models.Note {
		return models.Note{ID: "n1", Text: "x", UserID: user.ID, User: user, Mentions: mentions}
	}

	tests := []struct {
		name     string
		event    models.DomainEvent
		expected bool
	}{
		{
			name:     "note from a human passes",
			event:    models.NoteEvent{Note: note(human)},
			expected: true,
		},
		{
			name:     "note from an automated account is rejected",
			event:    models.NoteEvent{Note: note(automated)},
			expected: false,
		},
		{
			name:     "own note is rejected",
			event:    models.NoteEvent{Note: note(self)},
			expected: false,
		},
		{
			name:     "note mentioning the bot is rejected on the note path",
			event:    models.NoteEvent{Note: note(human, "bot1")},
			expected: false,
		},
		{
			name:     "note mentioning someone else passes",
			event:    models.NoteEvent{Note: note(human, "user9")},
			expected: true,
		},
		{
			name:     "mention from a human passes",
			event:    models.MentionEvent{Note: note(human, "bot1")},
			expected: true,
		},
		{
			name:     "mention from an automated account is rejected",
			event:    models.MentionEvent{Note: note(automated, "bot1")},
			expected: false,
		},
		{
			name:     "own mention is rejected",
			event:    models.MentionEvent{Note: note(self, "bot1")},
			expected: false,
		},
		{
			name:     "follow from a human passes",
			event:    models.FollowedEvent{User: human},
			expected: true,
		},
		{
			name:     "follow from an automated account is rejected",
			event:    models.FollowedEvent{User: automated},
			expected: false,
		},
		{
			name:     "follow from self is rejected",
			event:    models.FollowedEvent{User: self},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.ShouldProcess(tt.event))
		})
	}
}
