package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// WSEvent mirrors handler.WSEvent for client-side deserialization.
type WSEvent struct {
	Type   string         `json:"type"`
	GameID string         `json:"game_id"`
	Data   map[string]any `json:"data"`
}

// GameInfo mirrors model.Game, keeping only what the bot reads.
type GameInfo struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PlayerLord int    `json:"player_lord"`
	Turn       int    `json:"turn"`
	Result     string `json:"result,omitempty"`
	Winner     string `json:"winner,omitempty"`
}

// StateView mirrors service.StateView.
type StateView struct {
	State   *sengoku.GameState `json:"state"`
	Waiting bool               `json:"waiting"`
	Ended   bool               `json:"ended"`
	Outcome sengoku.TurnResult `json:"outcome"`
}

// AdvanceResult mirrors service.AdvanceResult.
type AdvanceResult struct {
	Events   []sengoku.Event    `json:"events"`
	Waiting  bool               `json:"waiting"`
	TurnDone bool               `json:"turn_done"`
	Turn     int                `json:"turn"`
	Finished bool               `json:"finished"`
	Outcome  sengoku.TurnResult `json:"outcome"`
}

// Client is an HTTP+WebSocket client for a remote autopilot.
type Client struct {
	name     string
	baseURL  string
	token    string
	userID   string
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a new bot client targeting the given server URL.
func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan WSEvent, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the bot name.
func (c *Client) Name() string { return c.name }

// UserID returns the bot's user ID after login.
func (c *Client) UserID() string { return c.userID }

// Login authenticates via the dev login endpoint.
func (c *Client) Login() error {
	resp, err := c.httpC.Get(c.baseURL + "/auth/dev?name=" + url.QueryEscape(c.name))
	if err != nil {
		return fmt.Errorf("dev login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dev login status %d: %s", resp.StatusCode, body)
	}

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("decode tokens: %w", err)
	}
	c.token = tokens.AccessToken

	var user struct {
		ID string `json:"id"`
	}
	if err := c.getJSON("/api/v1/users/me", &user); err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	c.userID = user.ID
	log.Debug().Str("bot", c.name).Str("userId", c.userID).Msg("Bot logged in")
	return nil
}

// CreateGame creates a new game and returns it.
func (c *Client) CreateGame(name string, seed uint64, difficulty string) (*GameInfo, error) {
	body := map[string]any{
		"name":       name,
		"seed":       seed,
		"difficulty": difficulty,
	}
	var game GameInfo
	if err := c.postJSON("/api/v1/games", body, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGame fetches game details.
func (c *Client) GetGame(gameID string) (*GameInfo, error) {
	var game GameInfo
	if err := c.getJSON("/api/v1/games/"+gameID, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetState fetches the live engine state of a game.
func (c *Client) GetState(gameID string) (*StateView, error) {
	var view StateView
	if err := c.getJSON("/api/v1/games/"+gameID+"/state", &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Advance runs the game until the next PlayerTurn or the end of the turn.
// cmds must be non-nil exactly when the game is waiting for the player.
func (c *Client) Advance(gameID string, cmds *sengoku.PlayerCommandsInput) (*AdvanceResult, error) {
	var payload any
	if cmds != nil {
		payload = cmds
	}
	var res AdvanceResult
	if err := c.postJSON("/api/v1/games/"+gameID+"/advance", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ConnectWS opens a WebSocket connection and starts listening for events.
func (c *Client) ConnectWS() error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// SubscribeGame sends a subscribe message for the given game.
func (c *Client) SubscribeGame(gameID string) error {
	msg := map[string]string{"action": "subscribe", "game_id": gameID}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wsConn.WriteJSON(msg)
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closedWS
			c.mu.Unlock()
			if !closed {
				log.Debug().Err(err).Str("bot", c.name).Msg("WS read error")
			}
			return
		}
		var event WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		select {
		case c.events <- event:
		default:
			log.Debug().Str("bot", c.name).Str("type", event.Type).Msg("WS event dropped, buffer full")
		}
	}
}

func (c *Client) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(path string, payload, out any) error {
	data := []byte("{}")
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
