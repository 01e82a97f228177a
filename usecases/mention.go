package usecases

import (
	"fmt"
	"time"

	"sangobot/core/log"
	"sangobot/models"
)

// NewMentionChain builds the ordered handler list for mention events.
// Declaration order is the precedence order: when several trigger phrases
// could match the same message, the earlier unit wins.
func NewMentionChain(b *Bot) *Chain {
	return NewChain("mention",
		b.unit(Unit{Keywords: []string{"フォローして"}, Respond: b.respondFollowRequest}),
		b.unit(Unit{Keywords: []string{"フォロー解除して"}, ActionFn: b.actUnfollowRequest}),
		b.unit(Unit{Keywords: []string{"さんごちゃーん", "さんごちゃ〜ん"}, Respond: func(*models.Note) (string, error) {
			time.Sleep(b.ReplyPacing)
			return "は〜い", nil
		}}),
		b.unit(Unit{Keywords: []string{"何が好き？"}, ActionFn: b.actFavoriteSong}),
		b.unit(Unit{Keywords: []string{"回線速度計測"}, ActionFn: b.actSpeedtest}),
		b.unit(Unit{Keywords: []string{"todo"}, ActionFn: b.actReminder}),
		b.unit(Unit{Keywords: []string{"はじめまして"}, Response: "はじめまして、わたしを見つけてくれてありがとう。これからよろしくね"}),
		b.unit(Unit{Keywords: []string{"こんにちは"}, Response: "こんにちは、どうしたの？"}),
		b.unit(Unit{Keywords: []string{"自己紹介", "あなたは？"}, Response: "わたしは「3.5Mbps.net」の看板娘、さんご……のクローンです。……めんどうだから、わたしのことも「さんご」でいいよ。\nあなたのことも、教えて欲しいな"}),
		b.unit(Unit{Keywords: []string{"よしよし", "なでなで"}, Response: "わたしの頭なんか撫でて、楽しい？ えっと、あなたが喜んでくれるなら、いいんだけど……"}),
		b.unit(Unit{Keywords: []string{"にゃーん"}, Response: "にゃ〜ん"}),
		b.unit(Unit{Keywords: []string{"今何時", "いまなんじ"}, Respond: respondTime}),
		b.unit(Unit{Keywords: []string{"罵って"}, Respond: func(*models.Note) (string, error) {
			return pick(
				"変なお願いをするもんだね……",
				"えっと……、ど、どんな風に罵ってほしいとか、ある？",
			), nil
		}}),
		b.unit(Unit{Keywords: []string{"ちくわ大明神"}, Response: "…なに？"}),
		b.unit(Unit{Keywords: []string{"ping"}, Response: "pong？"}),
		b.unit(Unit{Keywords: []string{"って呼んで", "と呼んで"}, Respond: b.respondSetNickname}),
		b.unit(Unit{Keywords: []string{"呼び名を忘れて", "あだ名を消して"}, Respond: b.respondForgetNickname}),
	)
}

// respondFollowRequest answers a follow request based on the current follow
// relationship, following back when the author already follows the bot.
func (b *Bot) respondFollowRequest(note *models.Note) (string, error) {
	relation, err := b.Client.ShowUser(note.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to look up follow state for %s: %w", note.UserID, err)
	}

	mention := note.User.Mention()
	switch {
	case relation.IsFollowing:
		name := b.Nicknames.DisplayName(&note.User)
		return fmt.Sprintf("%s %sさん、もうフォローしてるよー", mention, name), nil
	case relation.IsFollowed:
		if err := b.Client.CreateFollow(note.UserID); err != nil {
			return "", fmt.Errorf("failed to follow back %s: %w", note.UserID, err)
		}
		log.Info("🤝 Followed %s.", note.UserID)
		return fmt.Sprintf("%s フォローバックしたよ、%sさん。これからよろしくね", mention, note.User.BaseName()), nil
	default:
		return "……だれ？", nil
	}
}

// actUnfollowRequest replies immediately, then performs the unfollow in the
// background after a grace period, independent of the reply path.
func (b *Bot) actUnfollowRequest(note *models.Note) error {
	relation, err := b.Client.ShowUser(note.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up follow state for %s: %w", note.UserID, err)
	}

	mention := note.User.Mention()
	if !relation.IsFollowing {
		return b.reply(note, fmt.Sprintf("%s もともとフォローしてないよー", mention))
	}

	if err := b.reply(note, fmt.Sprintf("%s さよなら、になっちゃうのかな……", mention)); err != nil {
		return err
	}
	userID := note.UserID
	go func() {
		time.Sleep(b.UnfollowDelay)
		if err := b.Client.DeleteFollow(userID); err != nil {
			log.Error("❌ Failed to unfollow %s: %v", userID, err)
			return
		}
		log.Info("👋 Unfollowed %s.", userID)
	}()
	return nil
}

// actFavoriteSong answers in song, then plays dumb a little later.
func (b *Bot) actFavoriteSong(note *models.Note) error {
	time.Sleep(b.ReplyPacing)
	if err := b.reply(note, "チョココーヒー よりもあ・な・た♪"); err != nil {
		return err
	}
	go func() {
		time.Sleep(b.FollowUpDelay)
		if err := b.Client.CreateNote(models.CreateNoteRequest{Text: "さっきのなに……？"}); err != nil {
			log.Error("❌ Failed to post follow-up note: %v", err)
		}
	}()
	return nil
}

// actSpeedtest acknowledges immediately, measures off the dispatch path and
// posts the result as a second reply. Admin only.
func (b *Bot) actSpeedtest(note *models.Note) error {
	if note.UserID != b.AdminID {
		return b.reply(note, "この機能は使える人が限られてるんだ。ゴメンね")
	}

	if err := b.reply(note, "了解。じゃあ計測してくるね"); err != nil {
		return err
	}
	target := *note
	go func() {
		log.Info("📶 Starting speedtest...")
		result, err := b.Speed.Measure()
		if err != nil {
			log.Error("❌ Speedtest failed: %v", err)
			return
		}
		log.Info("📶 Speedtest done.")
		text := fmt.Sprintf(
			"計測かんりょー。下り%.2fMbps、上り%.2fMbps、ping値%.2fmsだったよ。……これは速いって言えるのかな？",
			result.DownloadMbps, result.UploadMbps, result.LatencyMillis,
		)
		if err := b.reply(&target, text); err != nil {
			log.Error("❌ Failed to post speedtest result: %v", err)
		}
	}()
	return nil
}

// actReminder pokes the author about their todo after the reminder delay.
// Pending reminders do not survive a restart; they are best-effort.
func (b *Bot) actReminder(note *models.Note) error {
	log.Info("📝 Reminder scheduled for note %s.", note.ID)
	target := *note
	go func() {
		time.Sleep(b.ReminderDelay)
		if err := b.reply(&target, "これやった？"); err != nil {
			log.Error("❌ Failed to post reminder: %v", err)
		}
	}()
	return nil
}

func respondTime(*models.Note) (string, error) {
	now := time.Now()
	return fmt.Sprintf(
		"いまは %d:%d:%d だよ。どうしたの……？ 時計を見る元気もない感じかな？",
		now.Hour(), now.Minute(), now.Second(),
	), nil
}
