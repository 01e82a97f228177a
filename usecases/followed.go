package usecases

import (
	"fmt"

	"sangobot/core/log"
	"sangobot/models"
)

// OnFollowed thanks a new follower and explains the follow-back trigger.
// The event filter has already dropped automated accounts and self-echoes.
func (b *Bot) OnFollowed(user *models.User) {
	text := fmt.Sprintf(
		"フォローありがとうございます、%sさん\n「フォローして」とメンションしながら投稿すると、フォローバックするよ",
		user.Mention(),
	)
	if err := b.Client.CreateNote(models.CreateNoteRequest{Text: text}); err != nil {
		log.Error("❌ Failed to thank new follower %s: %v", user.ID, err)
	}
}
