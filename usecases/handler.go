package usecases

import (
	"math/rand"
	"strings"
	"time"

	"sangobot/clients"
	"sangobot/core/log"
	"sangobot/models"
	"sangobot/services"
)

// Bot is the shared context handed to every handler invocation: the outbound
// API client, the bot's own identity and the nickname store. It is built
// once at startup; there is no ambient global state.
type Bot struct {
	Client    clients.MisskeyAPI
	Speed     clients.SpeedTester
	SelfID    string
	AdminID   string
	Nicknames *services.NicknameStore

	// Delays are fields so tests can shrink them.
	ReplyPacing   time.Duration
	FollowUpDelay time.Duration
	UnfollowDelay time.Duration
	ReminderDelay time.Duration
}

func NewBot(
	client clients.MisskeyAPI,
	speed clients.SpeedTester,
	selfID, adminID string,
	nicknames *services.NicknameStore,
) *Bot {
	return &Bot{
		Client:        client,
		Speed:         speed,
		SelfID:        selfID,
		AdminID:       adminID,
		Nicknames:     nicknames,
		ReplyPacing:   time.Second,
		FollowUpDelay: 10 * time.Second,
		UnfollowDelay: 10 * time.Second,
		ReminderDelay: 3 * time.Hour,
	}
}

// reply sends text as a threaded reply to the note.
func (b *Bot) reply(note *models.Note, text string) error {
	return b.Client.CreateNote(note.Reply(text))
}

// unit binds a Unit definition to this bot so its default action can post
// replies.
func (b *Bot) unit(u Unit) *Unit {
	u.bot = b
	return &u
}

// Handler is one independently authored trigger+condition+response behavior.
type Handler interface {
	// Gate decides whether this handler fires for the note.
	Gate(note *models.Note) bool
	// Act performs the handler's response or side effect.
	Act(note *models.Note) error
}

// Unit implements Handler with the common composition: the gate passes when
// any keyword is a substring of the text AND the extra condition holds.
// GateFn replaces the whole gate for handlers whose trigger is not simple
// substring matching. Exactly one of Response, Respond or ActionFn supplies
// the behavior; the default action posts the respond text, when non-empty,
// as a threaded reply.
type Unit struct {
	Keywords []string
	Cond     func(note *models.Note) bool
	GateFn   func(note *models.Note) bool

	Response string
	Respond  func(note *models.Note) (string, error)
	ActionFn func(note *models.Note) error

	bot *Bot
}

func (u *Unit) Gate(note *models.Note) bool {
	if u.GateFn != nil {
		return u.GateFn(note)
	}
	matched := false
	for _, keyword := range u.Keywords {
		if strings.Contains(note.Text, keyword) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if u.Cond != nil {
		return u.Cond(note)
	}
	return true
}

func (u *Unit) Act(note *models.Note) error {
	if u.ActionFn != nil {
		return u.ActionFn(note)
	}
	text := u.Response
	if u.Respond != nil {
		var err error
		text, err = u.Respond(note)
		if err != nil {
			return err
		}
	}
	if text == "" {
		// Act without replying.
		return nil
	}
	return u.bot.reply(note, text)
}

// Chain is a fixed, ordered list of handlers for one event category.
// Evaluation is first-match-wins: the first unit whose gate passes acts, and
// later units are never consulted for that note.
type Chain struct {
	name  string
	units []Handler
}

func NewChain(name string, units ...Handler) *Chain {
	return &Chain{name: name, units: units}
}

// Handle runs the chain for one note. A failing action is logged and counts
// as a completed dispatch; it never falls through to the next unit and never
// propagates to the caller.
func (c *Chain) Handle(note *models.Note) {
	for _, unit := range c.units {
		if !unit.Gate(note) {
			continue
		}
		if err := unit.Act(note); err != nil {
			log.Error("❌ Handler in %s chain failed for note %s: %v", c.name, note.ID, err)
		}
		return
	}
}

// chance is the probabilistic gate used by personality units.
func chance(probability float64) bool {
	return rand.Float64() < probability
}

// pick returns one of the candidate responses at random.
func pick(candidates ...string) string {
	return candidates[rand.Intn(len(candidates))]
}

// Router sends each accepted domain event to its chain. Chains are built
// once and live for the process lifetime.
type Router struct {
	bot     *Bot
	mention *Chain
	note    *Chain
}

func NewRouter(bot *Bot) *Router {
	return &Router{
		bot:     bot,
		mention: NewMentionChain(bot),
		note:    NewNoteChain(bot),
	}
}

// Handle runs the matching chain to completion for one event.
func (r *Router) Handle(ev models.DomainEvent) {
	switch e := ev.(type) {
	case models.MentionEvent:
		log.Debug("📨 Received a mention.")
		r.mention.Handle(&e.Note)
	case models.NoteEvent:
		log.Debug("📨 Received a note.")
		r.note.Handle(&e.Note)
	case models.FollowedEvent:
		log.Debug("📨 Received a follow.")
		r.bot.OnFollowed(&e.User)
	}
}
