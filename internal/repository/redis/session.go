package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Every key lives under keyPrefix: sengoku:<game>:snapshot holds the
// session and sengoku:<game>:idle expires when the game goes quiet.
const keyPrefix = "sengoku:"

func sessionKey(gameID string) string { return keyPrefix + gameID + ":snapshot" }
func idleKey(gameID string) string    { return keyPrefix + gameID + ":idle" }

// IdleKeyGameID returns the game whose idle key expired, or false for any
// other key.
func IdleKeyGameID(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return "", false
	}
	gameID, ok := strings.CutSuffix(rest, ":idle")
	if !ok || gameID == "" || strings.Contains(gameID, ":") {
		return "", false
	}
	return gameID, true
}

// SetSession stores the session snapshot JSON. It has no expiry.
func (c *Client) SetSession(ctx context.Context, gameID string, snapshot json.RawMessage) error {
	if err := c.rdb.Set(ctx, sessionKey(gameID), []byte(snapshot), 0).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// GetSession retrieves the session snapshot JSON, or nil if none is stored.
func (c *Client) GetSession(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, sessionKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return json.RawMessage(data), nil
}

// TouchIdle (re)arms the idle key. When it expires, Redis keyspace
// notifications tell the host to drop the in-memory session.
func (c *Client) TouchIdle(ctx context.Context, gameID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := c.rdb.Set(ctx, idleKey(gameID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("touch idle: %w", err)
	}
	return nil
}

// HasIdle reports whether the idle key is still armed.
func (c *Client) HasIdle(ctx context.Context, gameID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, idleKey(gameID)).Result()
	if err != nil {
		return false, fmt.Errorf("check idle: %w", err)
	}
	return n > 0, nil
}

// DeleteSession removes all Redis data for a game.
func (c *Client) DeleteSession(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, sessionKey(gameID), idleKey(gameID)).Err()
}
