package usecases

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"sangobot/core"
	"sangobot/models"
)

const maxNicknameLength = 15

var nicknamePattern = regexp.MustCompile(`@\S+\s*(.+?)\s*(と呼んで|って呼んで)`)

// nicknameSanitizer defuses markup triggers with a zero-width space and
// strips directionality-control code points, so a stored nickname cannot
// inject markup, mentions, links or direction overrides into later replies.
var nicknameSanitizer = strings.NewReplacer(
	"<", "<​", // <center>, <plain> and friends
	"$", "$​", // $[ MFM functions
	"://", ":​//", // links
	"](", "]​(", // links
	"#", "#​", // hashtags
	"@", "@​", // mentions
	"*", "*​", // bold, italic
	"؜", "", // arabic letter mark
	"‎", "", // left-to-right mark
	"‏", "", // right-to-left mark
	"‪", "", // left-to-right embedding
	"‫", "", // right-to-left embedding
	"‬", "", // pop directional formatting
	"‭", "", // left-to-right override
	"‮", "", // right-to-left override
	"⁦", "", // left-to-right isolate
	"⁧", "", // right-to-left isolate
	"⁨", "", // first strong isolate
	"⁩", "", // pop directional isolate
)

// SanitizeNickname makes a candidate nickname safe to re-emit inside a reply.
func SanitizeNickname(name string) string {
	return nicknameSanitizer.Replace(name)
}

// ExtractNickname pulls the requested nickname out of the mention text and
// sanitizes it. Text that does not carry a nickname at all returns empty
// with no error; a constraint violation returns a ValidationError whose
// Reply is the conversational answer.
func ExtractNickname(text string) (string, error) {
	matches := nicknamePattern.FindStringSubmatch(text)
	if matches == nil {
		return "", nil
	}
	candidate := matches[1]
	if utf8.RuneCountInString(candidate) > maxNicknameLength {
		return "", &core.ValidationError{
			Reply: fmt.Sprintf("えぇっと、その名前はちょっと長いかも……\n%d文字以内にしてほしいな", maxNicknameLength),
		}
	}
	sanitized := SanitizeNickname(candidate)
	if strings.TrimSpace(sanitized) == "" {
		return "", &core.ValidationError{Reply: "えぇっと、その名前はちょっと……だめかも……"}
	}
	return sanitized, nil
}

// respondSetNickname validates, persists and confirms a nickname request.
func (b *Bot) respondSetNickname(note *models.Note) (string, error) {
	nickname, err := ExtractNickname(note.Text)
	if err != nil {
		if validationErr, ok := core.IsValidationError(err); ok {
			return validationErr.Reply, nil
		}
		return "", err
	}
	if nickname == "" {
		// Matched the trigger phrase but carried no nickname; stay silent.
		return "", nil
	}
	if err := b.Nicknames.Set(note.UserID, nickname); err != nil {
		return "", fmt.Errorf("failed to store nickname for %s: %w", note.UserID, err)
	}
	return fmt.Sprintf("わかった。これからは%sさんって呼ぶね\nこれからもよろしくね、%sさん", nickname, nickname), nil
}

// respondForgetNickname drops a stored nickname so the bot falls back to the
// profile name.
func (b *Bot) respondForgetNickname(note *models.Note) (string, error) {
	removed, err := b.Nicknames.Remove(note.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to remove nickname for %s: %w", note.UserID, err)
	}
	if !removed {
		return "もともと特別な呼び名は登録されていないみたいだよ", nil
	}
	name := note.User.BaseName()
	return fmt.Sprintf("わかった。これからは%sさんって呼ぶね\nこれからもよろしくね、%sさん", name, name), nil
}
