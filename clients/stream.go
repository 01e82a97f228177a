package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"sangobot/core"
	"sangobot/core/log"
	"sangobot/models"

	"github.com/gorilla/websocket"
)

const pongWriteWait = 10 * time.Second

// Stream is one logical streaming connection's lifetime.
type Stream interface {
	Next() (*models.Envelope, error)
	Close() error
}

// StreamSession owns a single websocket connection to the instance's
// streaming endpoint. It does not reconnect; that policy lives one layer up.
type StreamSession struct {
	conn *websocket.Conn
}

type wireMessage struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

type channelBody struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

type subscribeRequest struct {
	Type string        `json:"type"`
	Body subscribeBody `json:"body"`
}

type subscribeBody struct {
	Channel string `json:"channel"`
	ID      string `json:"id"`
}

// ConnectStream dials the streaming endpoint and subscribes to the main and
// home timeline channels. Both subscription frames are written before any
// data frame is read so no event can slip between them.
func ConnectStream(host, token string) (*StreamSession, error) {
	endpoint := fmt.Sprintf("wss://%s/streaming?i=%s", host, token)
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to streaming endpoint: %w", err)
	}

	session := newStreamSession(conn)
	if err := session.subscribe(); err != nil {
		conn.Close()
		return nil, err
	}
	return session, nil
}

func newStreamSession(conn *websocket.Conn) *StreamSession {
	// Heartbeats are answered in place and never surface to the caller.
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(pongWriteWait))
	})
	return &StreamSession{conn: conn}
}

func (s *StreamSession) subscribe() error {
	requests := []subscribeRequest{
		{Type: "connect", Body: subscribeBody{Channel: "main", ID: core.NewID("ch")}},
		{Type: "connect", Body: subscribeBody{Channel: "homeTimeline", ID: core.NewID("ch")}},
	}
	for _, req := range requests {
		if err := s.conn.WriteJSON(req); err != nil {
			return fmt.Errorf("failed to subscribe to %s channel: %w", req.Body.Channel, err)
		}
	}
	return nil
}

// Next blocks until a usable data frame arrives. Frames that do not decode
// as channel events are logged and skipped; only a transport failure
// terminates the stream and surfaces as an error.
func (s *StreamSession) Next() (*models.Envelope, error) {
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("streaming connection terminated: %w", err)
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg wireMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "channel" {
			log.Debug("🗑️ Received frame in unknown format: %s", string(data))
			continue
		}

		var body channelBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			log.Debug("🗑️ Received channel frame with malformed body: %s", string(data))
			continue
		}
		return &models.Envelope{Kind: body.Type, Body: body.Body}, nil
	}
}

func (s *StreamSession) Close() error {
	return s.conn.Close()
}
