package main

import (
	"fmt"
	"time"

	"sangobot/clients"
	"sangobot/core/log"
	"sangobot/models"
	"sangobot/services"
	"sangobot/usecases"

	"github.com/lucasepe/codename"
)

const (
	reconnectBackoff = 30 * time.Second
	dispatchWorkers  = 8
)

// runner owns the outer connection lifecycle: connect, announce presence,
// pump the receive loop, and back off a fixed interval on any terminal
// failure. Reconnection lives here, never inside the stream session.
type runner struct {
	connect    func() (clients.Stream, error)
	announce   func() error
	sleep      func(time.Duration)
	backoff    time.Duration
	filter     *services.EventFilter
	dispatcher *services.Dispatcher
	router     *usecases.Router
	done       <-chan struct{}
}

func newRunner(cfg *models.Config, bot *usecases.Bot, dispatcher *services.Dispatcher, done <-chan struct{}) *runner {
	return &runner{
		connect: func() (clients.Stream, error) {
			return clients.ConnectStream(cfg.Host, cfg.Token)
		},
		announce: func() error {
			return bot.Client.CreateNote(models.CreateNoteRequest{Text: "うーん、うとうとしちゃってたみたい……？"})
		},
		sleep:      time.Sleep,
		backoff:    reconnectBackoff,
		filter:     &services.EventFilter{SelfID: bot.SelfID},
		dispatcher: dispatcher,
		router:     usecases.NewRouter(bot),
		done:       done,
	}
}

// run loops forever: one session per iteration, fixed backoff between.
func (r *runner) run() {
	for {
		name := sessionName()
		if err := r.runSession(name); err != nil {
			log.Error("❌ Session %s ended: %v", name, err)
		}

		select {
		case <-r.done:
			return
		default:
		}
		log.Info("🔄 Reconnecting in %v...", r.backoff)
		r.sleep(r.backoff)
	}
}

// runSession owns one connection's lifetime: announce presence, then pump
// events until the stream fails.
func (r *runner) runSession(name string) error {
	stream, err := r.connect()
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer stream.Close()
	log.Info("✅ Session %s connected.", name)

	// The presence announcement is part of session establishment: if it
	// fails, the session counts as failed and goes through the same backoff.
	if err := r.announce(); err != nil {
		return fmt.Errorf("failed to announce presence: %w", err)
	}

	for {
		envelope, err := stream.Next()
		if err != nil {
			return err
		}

		event, err := services.Classify(*envelope)
		if err != nil {
			log.Warn("⚠️ Dropping poison frame: %v", err)
			continue
		}
		if event == nil || !r.filter.ShouldProcess(event) {
			continue
		}

		ev := event
		r.dispatcher.Submit(func() {
			r.router.Handle(ev)
		})
	}
}

// sessionName tags one connection attempt in the logs.
func sessionName() string {
	rng, err := codename.DefaultRNG()
	if err != nil {
		return "session"
	}
	return codename.Generate(rng, 0)
}
