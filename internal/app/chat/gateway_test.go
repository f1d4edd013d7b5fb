package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
)

func testIdentity(name string) Identity {
	return Identity{ID: uuid.New(), Username: name, Role: "user"}
}

// newTestClient builds a registered client without a backing websocket
// connection. Frames are inspected by reading from the send queue directly.
func newTestClient(g *Gateway, name string) *Client {
	c := NewClient(g, nil, testIdentity(name))
	g.Register(c)
	return c
}

func receiveFrame(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case frame := <-c.send:
		var event Event
		require.NoError(t, json.Unmarshal(frame, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
		return Event{}
	}
}

func TestSubscribeAndBroadcast(t *testing.T) {
	g := NewGateway(nil)

	sender := newTestClient(g, "alice")
	receiver := newTestClient(g, "bob")
	outsider := newTestClient(g, "carol")

	g.Subscribe("room-1", sender)
	g.Subscribe("room-1", receiver)
	g.Subscribe("room-2", outsider)

	assert.Equal(t, 2, g.SubscriberCount("room-1"))

	g.Broadcast("room-1", sender.Identity(), "hello")

	// The sender is subscribed, so it receives its own message.
	for _, c := range []*Client{sender, receiver} {
		event := receiveFrame(t, c)
		assert.Equal(t, EventReceiveMessage, event.Type)

		var payload ReceiveMessagePayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "hello", payload.Message)
		assert.Equal(t, sender.Identity().ID, payload.User.ID)
		assert.NotZero(t, payload.Timestamp)
	}

	assert.Empty(t, outsider.send)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	g := NewGateway(nil)

	c := newTestClient(g, "alice")
	g.Subscribe("room-1", c)
	g.Unsubscribe("room-1", c)

	g.Broadcast("room-1", testIdentity("bob"), "anyone there?")

	assert.Empty(t, c.send)
	assert.Equal(t, 0, g.SubscriberCount("room-1"))
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	g := NewGateway(nil)

	// Must not panic or create state for the room.
	g.Broadcast("ghost-room", testIdentity("alice"), "hello?")
	assert.Equal(t, 0, g.SubscriberCount("ghost-room"))
}

func TestDropDiscardsAllSubscriptions(t *testing.T) {
	g := NewGateway(nil)

	c := newTestClient(g, "alice")
	g.Subscribe("room-1", c)
	g.Subscribe("room-2", c)

	g.Drop(c)

	assert.Equal(t, 0, g.SubscriberCount("room-1"))
	assert.Equal(t, 0, g.SubscriberCount("room-2"))
	assert.Empty(t, c.subscriptions)
}

func TestSlowConsumerIsDisconnected(t *testing.T) {
	g := NewGateway(nil)

	slow := newTestClient(g, "slow")
	g.Subscribe("room-1", slow)

	// Fill the send queue; nothing drains it without a write pump.
	for i := 0; i <= sendQueueSize; i++ {
		g.Broadcast("room-1", testIdentity("sender"), "flood")
	}

	// The overflowing broadcast closes the client's queue.
	slow.sendMu.Lock()
	closed := slow.sendClosed
	slow.sendMu.Unlock()
	assert.True(t, closed)

	// Further broadcasts must not panic on the closed queue.
	g.Broadcast("room-1", testIdentity("sender"), "after close")
}

func TestJoinLeaveEventsDriveSubscriptions(t *testing.T) {
	g := NewGateway(nil)
	c := newTestClient(g, "alice")

	join, err := NewEvent(EventJoinRoom, RoomPayload{RoomID: "room-1"})
	require.NoError(t, err)
	c.processInboundEvent(join)
	assert.Equal(t, 1, g.SubscriberCount("room-1"))

	leave, err := NewEvent(EventLeaveRoom, RoomPayload{RoomID: "room-1"})
	require.NoError(t, err)
	c.processInboundEvent(leave)
	assert.Equal(t, 0, g.SubscriberCount("room-1"))
}

func TestSendMessageEventFansOut(t *testing.T) {
	g := NewGateway(nil)

	sender := newTestClient(g, "alice")
	receiver := newTestClient(g, "bob")
	g.Subscribe("room-1", sender)
	g.Subscribe("room-1", receiver)

	frame, err := NewEvent(EventSendMessage, SendMessagePayload{RoomID: "room-1", Message: "hi"})
	require.NoError(t, err)
	sender.processInboundEvent(frame)

	event := receiveFrame(t, receiver)
	assert.Equal(t, EventReceiveMessage, event.Type)
}

func TestInvalidInboundEventsYieldErrorFrames(t *testing.T) {
	g := NewGateway(nil)
	c := newTestClient(g, "alice")

	tests := []struct {
		name  string
		frame []byte
	}{
		{"malformed JSON", []byte("{not json")},
		{"unknown event type", mustEvent(t, "dance", RoomPayload{RoomID: "room-1"})},
		{"join without room", mustEvent(t, EventJoinRoom, RoomPayload{})},
		{"message without content", mustEvent(t, EventSendMessage, SendMessagePayload{RoomID: "room-1"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.processInboundEvent(tt.frame)

			event := receiveFrame(t, c)
			assert.Equal(t, EventError, event.Type)
		})
	}
}

func mustEvent(t *testing.T, eventType EventType, payload any) []byte {
	t.Helper()
	frame, err := NewEvent(eventType, payload)
	require.NoError(t, err)
	return frame
}

func TestOversizeMessageRejected(t *testing.T) {
	g := NewGateway(nil)
	c := newTestClient(g, "alice")
	g.Subscribe("room-1", c)

	big := make([]byte, MaxContentBytes+1)
	for i := range big {
		big[i] = 'a'
	}

	frame := mustEvent(t, EventSendMessage, SendMessagePayload{RoomID: "room-1", Message: string(big)})
	c.processInboundEvent(frame)

	event := receiveFrame(t, c)
	assert.Equal(t, EventError, event.Type)
}

func TestBroadcastPersistsMessage(t *testing.T) {
	roomID := uuid.New()
	sender := testIdentity("alice")

	done := make(chan struct{})

	st := &store.MockStore{}
	st.On("CreateMessage", mock.Anything, store.CreateMessageParams{
		SenderID: sender.ID,
		RoomID:   roomID,
		Content:  "persist me",
	}).Run(func(mock.Arguments) { close(done) }).Return(nil)

	g := NewGateway(st)
	g.Broadcast(roomID.String(), sender, "persist me")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("message was not persisted")
	}
	st.AssertExpectations(t)
}

func TestBroadcastSkipsPersistenceForNonUUIDRoom(t *testing.T) {
	st := &store.MockStore{}

	g := NewGateway(st)
	g.Broadcast("not-a-uuid", testIdentity("alice"), "hello")

	// Give any stray goroutine a moment to run before asserting.
	time.Sleep(50 * time.Millisecond)
	st.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}
