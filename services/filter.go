package services

import "sangobot/models"

// EventFilter enforces the author-admission policy before any handler runs:
// automated accounts and the bot's own posts are rejected, and a note that
// mentions the bot is rejected on the note path because the stream delivers
// the same message again as a mention event. One physical message therefore
// reaches exactly one chain.
type EventFilter struct {
	SelfID string
}

func (f *EventFilter) ShouldProcess(ev models.DomainEvent) bool {
	switch e := ev.(type) {
	case models.NoteEvent:
		if e.Note.User.IsBot || e.Note.UserID == f.SelfID {
			return false
		}
		return !e.Note.MentionsUser(f.SelfID)
	case models.MentionEvent:
		return !e.Note.User.IsBot && e.Note.UserID != f.SelfID
	case models.FollowedEvent:
		return !e.User.IsBot && e.User.ID != f.SelfID
	default:
		return false
	}
}
