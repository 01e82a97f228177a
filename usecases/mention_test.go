package usecases

import (
	"errors"
	"testing"
	"time"

	"sangobot/clients"
	"sangobot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRequest(t *testing.T) {
	tests := []struct {
		name           string
		relation       models.UserRelation
		expectFollow   bool
		expectContains []string
	}{
		{
			name:           "author already follows the bot, follow back",
			relation:       models.UserRelation{IsFollowed: true},
			expectFollow:   true,
			expectContains: []string{"@taro", "フォローバックしたよ"},
		},
		{
			name:           "already following, no second follow",
			relation:       models.UserRelation{IsFollowing: true},
			expectContains: []string{"@taro", "もうフォローしてるよー"},
		},
		{
			name:           "unknown author",
			relation:       models.UserRelation{},
			expectContains: []string{"……だれ？"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockMisskeyAPI{
				ShowUserFunc: func(userID string) (*models.UserRelation, error) {
					assert.Equal(t, "user1", userID)
					relation := tt.relation
					return &relation, nil
				},
			}
			bot := newTestBot(t, api, &MockSpeedTester{})
			chain := NewMentionChain(bot)

			chain.Handle(testNote("@sango フォローして"))

			if tt.expectFollow {
				require.Equal(t, []string{"user1"}, api.FollowedIDs)
			} else {
				assert.Empty(t, api.FollowedIDs)
			}
			notes := api.Notes()
			require.Len(t, notes, 1)
			for _, fragment := range tt.expectContains {
				assert.Contains(t, notes[0].Text, fragment)
			}
		})
	}
}

func TestFollowRequestUsesStoredNickname(t *testing.T) {
	api := &MockMisskeyAPI{
		ShowUserFunc: func(string) (*models.UserRelation, error) {
			return &models.UserRelation{IsFollowing: true}, nil
		},
	}
	bot := newTestBot(t, api, &MockSpeedTester{})
	require.NoError(t, bot.Nicknames.Set("user1", "たろちゃん"))

	NewMentionChain(bot).Handle(testNote("@sango フォローして"))

	notes := api.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "たろちゃん")
}

func TestUnfollowRequestDelaysTheUnfollow(t *testing.T) {
	unfollowed := make(chan string, 1)
	api := &MockMisskeyAPI{
		ShowUserFunc: func(string) (*models.UserRelation, error) {
			return &models.UserRelation{IsFollowing: true}, nil
		},
		DeleteFollowFunc: func(userID string) error {
			unfollowed <- userID
			return nil
		},
	}
	bot := newTestBot(t, api, &MockSpeedTester{})
	bot.UnfollowDelay = 5 * time.Millisecond

	NewMentionChain(bot).Handle(testNote("@sango フォロー解除して"))

	// The goodbye reply is sent before the unfollow side effect runs.
	notes := api.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "さよなら")
	assert.Empty(t, api.Unfollowed())

	select {
	case userID := <-unfollowed:
		assert.Equal(t, "user1", userID)
	case <-time.After(time.Second):
		t.Fatal("unfollow side effect never ran")
	}

	// Exactly one unfollow, even after the delay has long passed.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"user1"}, api.Unfollowed())
}

func TestUnfollowRequestWhenNotFollowing(t *testing.T) {
	api := &MockMisskeyAPI{
		ShowUserFunc: func(string) (*models.UserRelation, error) {
			return &models.UserRelation{}, nil
		},
	}
	bot := newTestBot(t, api, &MockSpeedTester{})

	NewMentionChain(bot).Handle(testNote("@sango フォロー解除して"))

	notes := api.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "もともとフォローしてないよー")
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, api.Unfollowed())
}

func TestSpeedtestIsAdminOnly(t *testing.T) {
	measured := false
	api := &MockMisskeyAPI{}
	speed := &MockSpeedTester{
		MeasureFunc: func() (*clients.SpeedResult, error) {
			measured = true
			return &clients.SpeedResult{}, nil
		},
	}
	bot := newTestBot(t, api, speed)

	NewMentionChain(bot).Handle(testNote("@sango 回線速度計測"))

	notes := api.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "使える人が限られてるんだ")
	time.Sleep(20 * time.Millisecond)
	assert.False(t, measured)
}

func TestSpeedtestAcknowledgesThenReportsResult(t *testing.T) {
	done := make(chan struct{})
	api := &MockMisskeyAPI{}
	speed := &MockSpeedTester{
		MeasureFunc: func() (*clients.SpeedResult, error) {
			defer close(done)
			return &clients.SpeedResult{LatencyMillis: 12.34, DownloadMbps: 3.5, UploadMbps: 1.2}, nil
		},
	}
	bot := newTestBot(t, api, speed)

	note := testNote("@sango 回線速度計測")
	note.UserID = "admin"
	note.User.ID = "admin"
	NewMentionChain(bot).Handle(note)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("measurement never ran")
	}
	assert.Eventually(t, func() bool {
		return len(api.Notes()) == 2
	}, time.Second, 5*time.Millisecond)

	notes := api.Notes()
	assert.Contains(t, notes[0].Text, "計測してくるね")
	assert.Contains(t, notes[1].Text, "3.50Mbps")
	assert.Contains(t, notes[1].Text, "12.34ms")
}

func TestSpeedtestFailureStaysSilent(t *testing.T) {
	api := &MockMisskeyAPI{}
	speed := &MockSpeedTester{
		MeasureFunc: func() (*clients.SpeedResult, error) {
			return nil, errors.New("measurement failed")
		},
	}
	bot := newTestBot(t, api, speed)

	note := testNote("@sango 回線速度計測")
	note.UserID = "admin"
	NewMentionChain(bot).Handle(note)

	time.Sleep(20 * time.Millisecond)
	// Only the acknowledgement; the failure is swallowed with a log line.
	assert.Len(t, api.Notes(), 1)
}

func TestReminderFiresAfterDelay(t *testing.T) {
	api := &MockMisskeyAPI{}
	bot := newTestBot(t, api, &MockSpeedTester{})

	NewMentionChain(bot).Handle(testNote("@sango todo: ちゃんと寝る"))

	assert.Eventually(t, func() bool {
		notes := api.Notes()
		return len(notes) == 1 && notes[0].Text == "これやった？"
	}, time.Second, 5*time.Millisecond)
}

func TestMentionChainPrecedence(t *testing.T) {
	// "フォロー解除して" must reach the unfollow unit even though other
	// phrases could be teased out of longer messages; and a message that
	// matches both a greeting and ping answers the earlier unit only.
	api := &MockMisskeyAPI{
		ShowUserFunc: func(string) (*models.UserRelation, error) {
			return &models.UserRelation{}, nil
		},
	}
	bot := newTestBot(t, api, &MockSpeedTester{})
	chain := NewMentionChain(bot)

	chain.Handle(testNote("@sango こんにちは ping"))
	notes := api.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "こんにちは、どうしたの？", notes[0].Text)
}

func TestSetNicknameRoundTrip(t *testing.T) {
	api := &MockMisskeyAPI{}
	bot := newTestBot(t, api, &MockSpeedTester{})
	chain := NewMentionChain(bot)

	chain.Handle(testNote("@sango たろすけ って呼んで"))

	notes := api.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "たろすけ")

	nickname, ok := bot.Nicknames.Get("user1")
	require.True(t, ok)
	assert.Equal(t, "たろすけ", nickname)

	// Resolution now uses the stored nickname.
	assert.Equal(t, "たろすけ", bot.Nicknames.DisplayName(&models.User{ID: "user1", Username: "taro"}))
}

func TestSetNicknameTooLong(t *testing.T) {
	api := &MockMisskeyAPI{}
	bot := newTestBot(t, api, &MockSpeedTester{})

	NewMentionChain(bot).Handle(testNote("@sango あまりにも長すぎる呼び名を要求する人 って呼んで"))

	notes := api.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "長いかも")
	_, ok := bot.Nicknames.Get("user1")
	assert.False(t, ok)
}

func TestForgetNickname(t *testing.T) {
	tests := []struct {
		name           string
		stored         string
		expectContains string
	}{
		{
			name:           "stored nickname removed, falls back to handle",
			stored:         "たろちゃん",
			expectContains: "これからはtaroさんって呼ぶね",
		},
		{
			name:           "nothing stored",
			expectContains: "もともと特別な呼び名は登録されていない",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockMisskeyAPI{}
			bot := newTestBot(t, api, &MockSpeedTester{})
			if tt.stored != "" {
				require.NoError(t, bot.Nicknames.Set("user1", tt.stored))
			}

			NewMentionChain(bot).Handle(testNote("@sango 呼び名を忘れて"))

			notes := api.Notes()
			require.Len(t, notes, 1)
			assert.Contains(t, notes[0].Text, tt.expectContains)
			_, ok := bot.Nicknames.Get("user1")
			assert.False(t, ok)
		})
	}
}
