package models

import "encoding/json"

// Channel event kinds delivered over the streaming connection. Only note,
// mention and followed are acted upon; the rest are recognized so they can
// be discarded without noise.
const (
	EventKindNote                        = "note"
	EventKindMention                     = "mention"
	EventKindFollowed                    = "followed"
	EventKindNotification                = "notification"
	EventKindReply                       = "reply"
	EventKindRenote                      = "renote"
	EventKindFollow                      = "follow"
	EventKindUnfollow                    = "unfollow"
	EventKindMessagingMessage            = "messagingMessage"
	EventKindReadAllNotifications        = "readAllNotifications"
	EventKindUnreadNotification          = "unreadNotification"
	EventKindUnreadMention               = "unreadMention"
	EventKindReadAllUnreadMentions       = "readAllUnreadMentions"
	EventKindUnreadSpecifiedNote         = "unreadSpecifiedNote"
	EventKindReadAllUnreadSpecifiedNotes = "readAllUnreadSpecifiedNotes"
	EventKindUnreadMessagingMessage      = "unreadMessagingMessage"
	EventKindReadAllMessagingMessages    = "readAllMessagingMessages"
)

// Envelope is one decoded streaming message: its event kind plus the raw
// kind-specific payload. It lives for one receive cycle.
type Envelope struct {
	Kind string
	Body json.RawMessage
}

// User is the author slice of the API's user object.
type User struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Username string  `json:"username"`
	Host     *string `json:"host"`
	IsBot    bool    `json:"isBot"`
}

// Mention returns the @user or @user@host tag for the author.
func (u *User) Mention() string {
	if u.Host != nil && *u.Host != "" {
		return "@" + u.Username + "@" + *u.Host
	}
	return "@" + u.Username
}

// BaseName returns the profile display name, falling back to the handle.
func (u *User) BaseName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Username
}

// Note is one post as delivered over the stream.
type Note struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	UserID     string   `json:"userId"`
	User       User     `json:"user"`
	ReplyID    *string  `json:"replyId"`
	Visibility string   `json:"visibility"`
	Mentions   []string `json:"mentions"`
}

// IsTopLevel reports whether the note starts a thread rather than replying
// inside one.
func (n *Note) IsTopLevel() bool {
	return n.ReplyID == nil
}

// MentionsUser reports whether userID appears in the note's mention set.
func (n *Note) MentionsUser(userID string) bool {
	for _, id := range n.Mentions {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateNoteRequest is the payload for notes/create.
type CreateNoteRequest struct {
	Text       string  `json:"text"`
	ReplyID    *string `json:"replyId,omitempty"`
	Visibility string  `json:"visibility,omitempty"`
}

// Reply builds a threaded reply to this note with matching visibility.
func (n *Note) Reply(text string) CreateNoteRequest {
	replyID := n.ID
	return CreateNoteRequest{
		Text:       text,
		ReplyID:    &replyID,
		Visibility: n.Visibility,
	}
}

// UserRelation is the follow-relationship slice of users/show.
type UserRelation struct {
	IsFollowing bool `json:"isFollowing"`
	IsFollowed  bool `json:"isFollowed"`
}

// DomainEvent is a typed, filtered representation of an envelope ready for
// handler dispatch.
type DomainEvent interface {
	domainEvent()
}

// NoteEvent is a plain home-timeline post.
type NoteEvent struct {
	Note Note
}

// MentionEvent is a post that mentions the bot. It carries the same shape as
// NoteEvent; the streaming server delivers it as its own kind.
type MentionEvent struct {
	Note Note
}

// FollowedEvent fires when a user follows the bot.
type FollowedEvent struct {
	User User
}

func (NoteEvent) domainEvent()     {}
func (MentionEvent) domainEvent()  {}
func (FollowedEvent) domainEvent() {}
