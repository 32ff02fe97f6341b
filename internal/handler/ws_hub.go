package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub-level event types. Game events use the service.Event* names.
const (
	EventConnected = "connected"
	EventError     = "error"
)

// WSEvent is the envelope for every server push.
type WSEvent struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Data   any    `json:"data"`
}

// ClientMessage is what a client sends: subscribe or unsubscribe to a game.
type ClientMessage struct {
	Action string `json:"action"`
	GameID string `json:"game_id"`
}

// WSConn is one socket. watching is guarded by the hub lock.
type WSConn struct {
	conn     *websocket.Conn
	userID   string
	send     chan []byte
	watching map[string]struct{}
}

// Hub fans game events out to the sockets watching each game.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*WSConn]struct{}
	watchers map[string]map[*WSConn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns:    make(map[*WSConn]struct{}),
		watchers: make(map[string]map[*WSConn]struct{}),
	}
}

func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

// Unregister drops c from every game it watches and closes its queue.
// Calling it twice is harmless.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return
	}
	delete(h.conns, c)
	for gameID := range c.watching {
		h.unwatch(c, gameID)
	}
	close(c.send)
}

func (h *Hub) Subscribe(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.watchers[gameID]
	if set == nil {
		set = make(map[*WSConn]struct{})
		h.watchers[gameID] = set
	}
	set[c] = struct{}{}
	if c.watching == nil {
		c.watching = make(map[string]struct{})
	}
	c.watching[gameID] = struct{}{}
}

func (h *Hub) Unsubscribe(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unwatch(c, gameID)
}

// unwatch requires h.mu held for writing.
func (h *Hub) unwatch(c *WSConn, gameID string) {
	delete(c.watching, gameID)
	set := h.watchers[gameID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.watchers, gameID)
	}
}

// BroadcastToGame queues event for every watcher of gameID. A watcher with
// a full queue misses the event; the engine never waits on a socket.
func (h *Hub) BroadcastToGame(gameID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Str("type", event.Type).Msg("Failed to marshal WebSocket event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.watchers[gameID] {
		c.enqueue(data, gameID)
	}
}

func (h *Hub) sendTo(c *WSConn, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.conns[c]; ok {
		c.enqueue(data, event.GameID)
	}
}

func (c *WSConn) enqueue(data []byte, gameID string) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("userId", c.userID).Str("gameId", gameID).Msg("Dropping WebSocket message, buffer full")
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) GameSubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[gameID])
}
