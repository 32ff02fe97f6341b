package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/internal/auth"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256

	authorizeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled by middleware
	},
}

// GameAuthorizer reports whether userID may watch gameID.
type GameAuthorizer func(ctx context.Context, gameID, userID string) error

// WSHandler handles WebSocket connections.
type WSHandler struct {
	hub       *Hub
	jwtMgr    *auth.JWTManager
	authorize GameAuthorizer
}

// NewWSHandler creates a WSHandler. A nil authorize allows every
// subscription.
func NewWSHandler(hub *Hub, jwtMgr *auth.JWTManager, authorize GameAuthorizer) *WSHandler {
	return &WSHandler{hub: hub, jwtMgr: jwtMgr, authorize: authorize}
}

// ServeWS handles GET /api/v1/ws and upgrades to WebSocket.
// Auth via ?token= query parameter (WebSocket can't send headers).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, `{"error":"missing token parameter"}`, http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtMgr.ValidateAccessToken(tokenStr)
	if err != nil {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)
	h.hub.sendTo(client, WSEvent{Type: EventConnected, Data: map[string]any{}})

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("userId", claims.UserID).Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// handleMessage applies one client message.
func (h *WSHandler) handleMessage(c *WSConn, msg ClientMessage) {
	if msg.GameID == "" {
		return
	}
	switch msg.Action {
	case "subscribe":
		if h.authorize != nil {
			ctx, cancel := context.WithTimeout(context.Background(), authorizeTimeout)
			err := h.authorize(ctx, msg.GameID, c.userID)
			cancel()
			if err != nil {
				log.Debug().Err(err).Str("userId", c.userID).Str("gameId", msg.GameID).Msg("Subscription refused")
				h.hub.sendTo(c, WSEvent{Type: EventError, GameID: msg.GameID, Data: map[string]string{"error": err.Error()}})
				return
			}
		}
		h.hub.Subscribe(c, msg.GameID)
	case "unsubscribe":
		h.hub.Unsubscribe(c, msg.GameID)
	}
}

// readPump reads messages from the WebSocket connection.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("userId", c.userID).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("userId", c.userID).Msg("WebSocket unexpected close")
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		h.handleMessage(c, msg)
	}
}

// writePump writes queued messages, one frame each, and keeps the
// connection alive with pings.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
