/*
Package chat contains the realtime session gateway: authenticated websocket
connections, per-connection room subscriptions, and message fan-out.

This file defines the wire events exchanged with clients. Every frame is a
JSON envelope {type, payload}.
*/
package chat

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
)

// EventType discriminates the JSON envelope exchanged over a connection.
type EventType string

const (
	// EventJoinRoom subscribes the connection to a room's broadcasts.
	EventJoinRoom EventType = "join_room"

	// EventLeaveRoom drops the connection's subscription to a room.
	EventLeaveRoom EventType = "leave_room"

	// EventSendMessage asks the server to fan a message out to a room.
	EventSendMessage EventType = "send_message"

	// EventReceiveMessage delivers a room message to a subscriber.
	EventReceiveMessage EventType = "receive_message"

	// EventError reports a request-level failure back to the client.
	EventError EventType = "error"
)

// Event is the JSON envelope for every frame in both directions.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Identity is the connection's identity snapshot, taken once at handshake
// time. Later role or ban changes do not affect a live connection.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// IdentityFromUser builds the handshake snapshot from a stored account.
func IdentityFromUser(u store.User) Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}
}

// RoomPayload is the payload of join_room and leave_room.
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

// SendMessagePayload is the payload of send_message.
type SendMessagePayload struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// ReceiveMessagePayload is the payload of receive_message.
type ReceiveMessagePayload struct {
	User      Identity `json:"user"`
	Message   string   `json:"message"`
	Timestamp int64    `json:"timestamp"`
}

// ErrorPayload is the payload of error events.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewEvent marshals a payload into a complete wire frame.
func NewEvent(eventType EventType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		Type:    eventType,
		Payload: payloadBytes,
	})
}
