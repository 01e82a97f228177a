package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sangobot/clients"
	"sangobot/models"
	"sangobot/services"
	"sangobot/usecases"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	NextFunc  func() (*models.Envelope, error)
	CloseFunc func() error
}

func (f *fakeStream) Next() (*models.Envelope, error) {
	return f.NextFunc()
}

func (f *fakeStream) Close() error {
	if f.CloseFunc != nil {
		return f.CloseFunc()
	}
	return nil
}

func newTestRunner(t *testing.T, client *usecases.MockMisskeyAPI) *runner {
	t.Helper()
	nicknames := services.LoadNicknameStore(filepath.Join(t.TempDir(), "savedata.json"))
	bot := usecases.NewBot(client, &usecases.MockSpeedTester{}, "self1", "admin1", nicknames)
	return &runner{
		backoff:    reconnectBackoff,
		filter:     &services.EventFilter{SelfID: bot.SelfID},
		dispatcher: services.NewDispatcher(dispatchWorkers),
		router:     usecases.NewRouter(bot),
	}
}

func TestRunReconnectsWithFixedBackoff(t *testing.T) {
	client := &usecases.MockMisskeyAPI{
		CreateNoteFunc: func(req models.CreateNoteRequest) error { return nil },
	}
	r := newTestRunner(t, client)

	done := make(chan struct{})
	var closeOnce sync.Once

	connects := 0
	r.connect = func() (clients.Stream, error) {
		connects++
		if connects <= 2 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return &fakeStream{
			NextFunc: func() (*models.Envelope, error) {
				closeOnce.Do(func() { close(done) })
				return nil, errors.New("streaming connection terminated")
			},
		}, nil
	}
	announces := 0
	r.announce = func() error {
		announces++
		return nil
	}
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }
	r.done = done

	r.run()

	assert.Equal(t, 3, connects, "two failed dials, then one session")
	assert.Equal(t, 1, announces, "presence is only announced once connected")
	assert.Equal(t, []time.Duration{reconnectBackoff, reconnectBackoff}, slept)
	r.dispatcher.StopWait()
}

func TestRunTreatsAnnounceFailureAsSessionFailure(t *testing.T) {
	client := &usecases.MockMisskeyAPI{}
	r := newTestRunner(t, client)

	done := make(chan struct{})
	var closeOnce sync.Once

	r.connect = func() (clients.Stream, error) {
		return &fakeStream{
			NextFunc: func() (*models.Envelope, error) {
				return nil, errors.New("streaming connection terminated")
			},
		}, nil
	}
	announces := 0
	r.announce = func() error {
		announces++
		if announces == 1 {
			return errors.New("api unreachable")
		}
		closeOnce.Do(func() { close(done) })
		return nil
	}
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }
	r.done = done

	r.run()

	assert.Equal(t, 2, announces)
	assert.NotEmpty(t, slept, "announce failure goes through the backoff")
	r.dispatcher.StopWait()
}

func TestRunSessionDispatchesAcceptedEvents(t *testing.T) {
	client := &usecases.MockMisskeyAPI{
		CreateNoteFunc: func(req models.CreateNoteRequest) error { return nil },
	}
	r := newTestRunner(t, client)
	r.announce = func() error { return nil }

	mention := models.Note{
		ID:         "note1",
		Text:       "@sango ping",
		UserID:     "user1",
		User:       models.User{ID: "user1", Username: "taro"},
		Visibility: "public",
	}
	body, err := json.Marshal(mention)
	require.NoError(t, err)

	frames := []*models.Envelope{
		{Kind: models.EventKindMention, Body: body},
	}
	r.connect = func() (clients.Stream, error) {
		return &fakeStream{
			NextFunc: func() (*models.Envelope, error) {
				if len(frames) == 0 {
					return nil, errors.New("streaming connection terminated")
				}
				frame := frames[0]
				frames = frames[1:]
				return frame, nil
			},
		}, nil
	}

	err = r.runSession("test")
	require.Error(t, err, "the session ends when the stream does")
	r.dispatcher.StopWait()

	notes := client.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "pong？", notes[0].Text)
	require.NotNil(t, notes[0].ReplyID)
	assert.Equal(t, "note1", *notes[0].ReplyID)
}
