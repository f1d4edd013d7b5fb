/*
Package chat contains the realtime session gateway: authenticated websocket
connections, per-connection room subscriptions, and message fan-out.

This file defines the Client struct, one per live websocket connection. It
runs the read and write pumps, dispatches inbound events, and cleans up its
subscriptions on disconnect.
*/
package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

const (
	// timeout duration for writing to the websocket connection.
	writeWait = 10 * time.Second

	// maximum time the server waits for a Pong from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an inbound frame.
	maxFrameSize = 8192

	// MaxContentBytes is the maximum allowed size for message content.
	MaxContentBytes = 5000

	// sendQueueSize is the per-connection outbound buffer.
	sendQueueSize = 256
)

// Client represents an active websocket connection and its identity snapshot.
type Client struct {
	// the gateway this connection is registered with.
	gateway *Gateway

	// underlying websocket connection; nil in gateway-only tests.
	conn *websocket.Conn

	// identity snapshot taken at handshake time.
	identity Identity

	// subscriptions is the set of room IDs this connection receives
	// broadcasts for. Guarded by the gateway's lock.
	subscriptions map[string]struct{}

	// send queues outbound frames for the write pump.
	send chan []byte

	sendMu     sync.Mutex
	sendClosed bool
	closeOnce  sync.Once

	logger zerolog.Logger
}

// NewClient constructs a Client for an authenticated connection.
func NewClient(gateway *Gateway, conn *websocket.Conn, identity Identity) *Client {
	clientLogger := logx.Logger().With().
		Str("client_id", identity.ID.String()).
		Logger()

	return &Client{
		gateway:       gateway,
		conn:          conn,
		identity:      identity,
		subscriptions: make(map[string]struct{}),
		send:          make(chan []byte, sendQueueSize),
		logger:        clientLogger,
	}
}

// Identity returns the connection's handshake identity snapshot.
func (c *Client) Identity() Identity {
	return c.identity
}

// ReadPump reads frames from the websocket connection, handles heartbeats,
// and dispatches events until the connection closes.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundEvent(frame)
	}
}

// cleanupOnDisconnect discards the subscription set and closes the
// connection when the read pump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.gateway.Drop(c)
	c.closeSend()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundEvent dispatches a raw frame received from the client.
func (c *Client) processInboundEvent(frame []byte) {
	var event Event
	if err := json.Unmarshal(frame, &event); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	switch event.Type {
	case EventJoinRoom:
		c.handleJoinRoom(event.Payload)

	case EventLeaveRoom:
		c.handleLeaveRoom(event.Payload)

	case EventSendMessage:
		c.handleSendMessage(event.Payload)

	default:
		c.logger.Warn().Str("event_type", string(event.Type)).Msg("Client sent unsupported event type")
		c.SendError(errs.NewError(errs.ErrInvalidParams))
	}
}

// handleJoinRoom adds a room to the connection's subscription set.
func (c *Client) handleJoinRoom(payloadBytes json.RawMessage) {
	var payload RoomPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.RoomID == "" {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	c.gateway.Subscribe(payload.RoomID, c)
}

// handleLeaveRoom drops a room from the connection's subscription set.
func (c *Client) handleLeaveRoom(payloadBytes json.RawMessage) {
	var payload RoomPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.RoomID == "" {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	c.gateway.Unsubscribe(payload.RoomID, c)
}

// handleSendMessage fans the message out to the room's current subscribers.
func (c *Client) handleSendMessage(payloadBytes json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.RoomID == "" || payload.Message == "" {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if len(payload.Message) > MaxContentBytes {
		c.SendError(errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	c.gateway.Broadcast(payload.RoomID, c.identity, payload.Message)
}

// WritePump writes queued frames to the websocket connection and keeps the
// heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel. It returns
// false when the write pump should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePing sends the periodic heartbeat Ping. It returns false when the
// write pump should terminate.
func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue attempts to queue a frame for the write pump without blocking.
// It returns false when the queue is closed or full.
func (c *Client) enqueue(frame []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// SendError queues an error event for the client.
func (c *Client) SendError(err error) {
	var code int
	var message string

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
	} else {
		code = errs.ErrUnknown
		message = "Internal server error."
	}

	frame, buildErr := NewEvent(EventError, ErrorPayload{
		Code:    code,
		Message: message,
	})
	if buildErr != nil {
		c.logger.Error().Err(buildErr).Msg("Failed to build error event")
		return
	}

	if !c.enqueue(frame) {
		c.logger.Warn().Msg("Failed to queue error event")
	}
}

// Close terminates the connection. The read pump's cleanup path unregisters
// the client from the gateway.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closeSend()
		if c.conn != nil {
			if err := c.conn.Close(); err != nil {
				c.logger.Debug().Err(err).Msg("Client connection close error")
			}
		}
	})
}
