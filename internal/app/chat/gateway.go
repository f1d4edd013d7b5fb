/*
Package chat contains the realtime session gateway: authenticated websocket
connections, per-connection room subscriptions, and message fan-out.

This file defines the Gateway, an explicitly constructed registry mapping
room IDs to subscribed connections. It is owned by whoever builds it (main,
or a test), never ambient package state, so independent instances can coexist.
*/
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

// persistTimeout bounds the best-effort message persistence write.
const persistTimeout = 5 * time.Second

// Gateway tracks every live connection and which rooms each one subscribes
// to. A single coarse lock guards both maps; room counts are low enough that
// finer locking buys nothing.
type Gateway struct {
	mu sync.RWMutex

	// rooms maps a room ID to the set of subscribed connections.
	rooms map[string]map[*Client]struct{}

	// clients is the set of all live connections, for shutdown.
	clients map[*Client]struct{}

	// store receives best-effort message records; may be nil to disable
	// persistence entirely.
	store store.Store

	logger zerolog.Logger
}

// NewGateway constructs a Gateway. Pass a nil store to skip message
// persistence.
func NewGateway(st store.Store) *Gateway {
	return &Gateway{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
		store:   st,
		logger:  logx.Logger().With().Str("component", "gateway").Logger(),
	}
}

// Register adds a freshly authenticated connection to the gateway.
func (g *Gateway) Register(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clients[c] = struct{}{}

	g.logger.Info().
		Str("client_id", c.identity.ID.String()).
		Int("total_clients", len(g.clients)).
		Msg("Client connected.")
}

// Subscribe adds the connection to a room's subscriber set. Any
// authenticated connection may subscribe to any room ID; the persisted
// membership rules are not consulted here.
func (g *Gateway) Subscribe(roomID string, c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	subscribers, ok := g.rooms[roomID]
	if !ok {
		subscribers = make(map[*Client]struct{})
		g.rooms[roomID] = subscribers
	}
	subscribers[c] = struct{}{}
	c.subscriptions[roomID] = struct{}{}

	g.logger.Debug().
		Str("client_id", c.identity.ID.String()).
		Str("room_id", roomID).
		Int("subscribers", len(subscribers)).
		Msg("Client subscribed to room.")
}

// Unsubscribe drops the connection's subscription to a room.
func (g *Gateway) Unsubscribe(roomID string, c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeSubscription(roomID, c)
}

// Drop removes a disconnected client from every room it subscribed to and
// from the client set. The subscription set is discarded; no notification is
// sent to other subscribers.
func (g *Gateway) Drop(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for roomID := range c.subscriptions {
		g.removeSubscription(roomID, c)
	}
	delete(g.clients, c)

	g.logger.Info().
		Str("client_id", c.identity.ID.String()).
		Int("total_clients", len(g.clients)).
		Msg("Client disconnected.")
}

// removeSubscription must be called with g.mu held.
func (g *Gateway) removeSubscription(roomID string, c *Client) {
	delete(c.subscriptions, roomID)

	subscribers, ok := g.rooms[roomID]
	if !ok {
		return
	}
	delete(subscribers, c)
	if len(subscribers) == 0 {
		delete(g.rooms, roomID)
	}
}

// Broadcast fans a message out to the current snapshot of a room's
// subscribers, including the sender if subscribed. Delivery is best-effort:
// a subscriber with a full send queue is disconnected rather than awaited.
func (g *Gateway) Broadcast(roomID string, sender Identity, content string) {
	now := time.Now()

	frame, err := NewEvent(EventReceiveMessage, ReceiveMessagePayload{
		User:      sender,
		Message:   content,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		g.logger.Error().Err(err).Str("room_id", roomID).Msg("Failed to build receive_message frame.")
		return
	}

	g.mu.RLock()
	subscribers := make([]*Client, 0, len(g.rooms[roomID]))
	for c := range g.rooms[roomID] {
		subscribers = append(subscribers, c)
	}
	g.mu.RUnlock()

	for _, c := range subscribers {
		if !c.enqueue(frame) {
			g.logger.Warn().
				Str("client_id", c.identity.ID.String()).
				Str("room_id", roomID).
				Msg("Client send queue full. Closing connection.")
			c.Close()
		}
	}

	g.persist(roomID, sender, content)
}

// persist writes the message record asynchronously. Persistence never blocks
// or fails the fan-out.
func (g *Gateway) persist(roomID string, sender Identity, content string) {
	if g.store == nil {
		return
	}

	roomUUID, err := uuid.Parse(roomID)
	if err != nil {
		g.logger.Debug().Str("room_id", roomID).Msg("Room ID is not a UUID. Skipping message persistence.")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		err := g.store.CreateMessage(ctx, store.CreateMessageParams{
			SenderID: sender.ID,
			RoomID:   roomUUID,
			Content:  content,
		})
		if err != nil {
			g.logger.Warn().Err(err).Str("room_id", roomID).Msg("Failed to persist message.")
		}
	}()
}

// SubscriberCount returns the current number of subscribers for a room.
func (g *Gateway) SubscriberCount(roomID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms[roomID])
}

// Shutdown closes every live connection. New registrations after Shutdown
// are not prevented; the HTTP listener is expected to be down already.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	clients := make([]*Client, 0, len(g.clients))
	for c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}

	g.logger.Info().Int("closed", len(clients)).Msg("Gateway shutdown complete.")
}
