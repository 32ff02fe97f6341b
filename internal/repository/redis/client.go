package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dialTimeout = 5 * time.Second

// Client is the session cache: one snapshot and one idle key per hosted
// game. Postgres keeps the history; Redis only holds the live position.
type Client struct {
	rdb *redis.Client
}

// NewClient dials redisURL and fails fast if the server does not answer.
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Session cache connected")
	return &Client{rdb: rdb}, nil
}

// NewClientFromPool adopts an already open connection.
func NewClientFromPool(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Underlying exposes the connection for the idle-key reaper, which needs
// CONFIG SET and keyspace subscriptions.
func (c *Client) Underlying() *redis.Client {
	return c.rdb
}
