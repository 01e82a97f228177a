package usecases

import (
	"fmt"
	"strings"
	"unicode"

	"sangobot/models"
)

// NewNoteChain builds the ordered handler list for plain timeline notes.
// Several units only react to top-level posts so the bot does not butt into
// sub-threads, and a few are probabilistic on purpose.
func NewNoteChain(b *Bot) *Chain {
	return NewChain("note",
		b.unit(Unit{Keywords: []string{"つらい", "つらすぎ"}, Response: "つらいときは、甘えてもいいんだよ？"}),
		b.unit(Unit{
			Keywords: []string{"疲れた", "つかれた", "疲れてる", "つかれてる", "疲れている", "つかれている"},
			Response: "ひとやすみ、する？ それとも、わたしが癒してあげよっか？",
		}),
		b.unit(Unit{Keywords: []string{"出勤"}, Respond: func(*models.Note) (string, error) {
			return pick(
				"お仕事、頑張ってきてね。わたし、帰ってくるの、待ってるから……",
				"お仕事は大事だけど、あんまり無理はしないでね？",
				"お仕事とわたし、どっちが大事なんだろう……。まぁ、わたしにはロイちゃんがいるから、いい……のかな？\n……あっ、ち、違う！ これは違くて…！ なんでもないから……！",
			), nil
		}}),
		b.unit(Unit{Keywords: []string{"退勤"}, Response: "お仕事終わったの？ お疲れさま～。 ……わたしの癒し、必要かな？ 必要なら、いつでも言ってね"}),
		b.unit(Unit{Keywords: []string{"ぬるぽ"}, Cond: func(*models.Note) bool {
			return chance(1.0 / 3.0)
		}, Response: "ガッ"}),
		b.unit(Unit{Keywords: []string{"さんごちゃん"}, Cond: func(note *models.Note) bool {
			// Only when there is more text after the name.
			trimmed := strings.TrimRightFunc(note.Text, unicode.IsSpace)
			return !strings.HasSuffix(trimmed, "さんごちゃん") && chance(1.0/3.0)
		}, Respond: func(note *models.Note) (string, error) {
			return fmt.Sprintf("呼んだ？ %sさん", b.Nicknames.DisplayName(&note.User)), nil
		}}),
		b.unit(Unit{Keywords: []string{"眠い", "眠たい", "ねむ"}, Cond: func(note *models.Note) bool {
			if strings.Contains(note.Text, "ねむ") {
				return note.IsTopLevel() && !strings.Contains(note.Text, "くない")
			}
			return note.IsTopLevel()
		}, Response: "なるほど、眠いんだね。……我慢はよくないよ？ 欲には素直にならないと"}),
		b.unit(Unit{Keywords: []string{"おはよ"}, Cond: topLevelOnly, Respond: func(*models.Note) (string, error) {
			state := pick(
				"よく眠れたよ～。元気いーっぱい",
				"あんまり寝れなかったかな……。まぁ、なんとかなるでしょ～",
			)
			return "おはよ、よく眠れた？ わたしは" + state, nil
		}}),
		b.unit(Unit{Keywords: []string{"おやすみ"}, Cond: func(note *models.Note) bool {
			return note.IsTopLevel() && !strings.Contains(note.Text, "すきー")
		}, Respond: func(*models.Note) (string, error) {
			return pick(
				"また朝に会おうね、おやすみ",
				"おやすみって言ったんだから、夜更かししようなんて考えないでね？",
				"寝ちゃうんだ……。ふーん……",
			), nil
		}}),
		b.unit(Unit{Keywords: []string{"おそよ"}, Cond: topLevelOnly, Response: "遅いよ、ねぼすけさん。なんで寝坊したのか、ちゃんと説明して？"}),
		b.unit(Unit{Keywords: []string{"にゃーん"}, Cond: func(note *models.Note) bool {
			return note.IsTopLevel() && chance(1.0/2.0)
		}, Response: "にゃーん。……えへへ、わたしも混ぜて？"}),
		b.unit(Unit{Keywords: []string{"二度寝"}, Cond: topLevelOnly, Respond: func(*models.Note) (string, error) {
			return pick(
				"二度寝をするのは悪いことではないけど、ほどほどにしておいてね？",
				"30分後にアラームを設定。……よし、準備おっけー。じゃあ、わたしも二度寝しちゃおうかな……",
			), nil
		}}),
	)
}

func topLevelOnly(note *models.Note) bool {
	return note.IsTopLevel()
}
