package services

import (
	"encoding/json"
	"fmt"

	"sangobot/core"
	"sangobot/core/log"
	"sangobot/models"
)

// Classify maps an envelope to a typed domain event. Kinds the bot does not
// act on classify to (nil, nil) — including unknown future kinds, which must
// never crash the pipeline. A payload that fails to decode under a live kind
// returns an IgnorableError so the receive loop can log it and move on.
func Classify(env models.Envelope) (models.DomainEvent, error) {
	switch env.Kind {
	case models.EventKindNote, models.EventKindMention:
		var note models.Note
		if err := json.Unmarshal(env.Body, &note); err != nil {
			return nil, &core.IgnorableError{
				Message: fmt.Sprintf("undecodable %s payload", env.Kind),
				Err:     err,
			}
		}
		if env.Kind == models.EventKindMention {
			return models.MentionEvent{Note: note}, nil
		}
		return models.NoteEvent{Note: note}, nil

	case models.EventKindFollowed:
		var user models.User
		if err := json.Unmarshal(env.Body, &user); err != nil {
			return nil, &core.IgnorableError{Message: "undecodable followed payload", Err: err}
		}
		return models.FollowedEvent{User: user}, nil

	case models.EventKindNotification,
		models.EventKindReply,
		models.EventKindRenote,
		models.EventKindFollow,
		models.EventKindUnfollow,
		models.EventKindMessagingMessage,
		models.EventKindReadAllNotifications,
		models.EventKindUnreadNotification,
		models.EventKindUnreadMention,
		models.EventKindReadAllUnreadMentions,
		models.EventKindUnreadSpecifiedNote,
		models.EventKindReadAllUnreadSpecifiedNotes,
		models.EventKindUnreadMessagingMessage,
		models.EventKindReadAllMessagingMessages:
		// Recognized but not acted upon.
		return nil, nil

	default:
		log.Debug("🗑️ Ignoring unknown event kind: %s", env.Kind)
		return nil, nil
	}
}
