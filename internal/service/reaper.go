package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/internal/repository"
	redisrepo "github.com/freeeve/sengoku/api/internal/repository/redis"
)

// SessionReaper drops in-memory sessions whose idle key expired in Redis.
// It listens for keyspace notifications and also polls, in case
// notifications are not enabled on the server.
type SessionReaper struct {
	rdb      *redis.Client
	cache    repository.SessionCache
	sessions *SessionStore
	interval time.Duration
}

// NewSessionReaper creates a SessionReaper.
func NewSessionReaper(rdb *redis.Client, cache repository.SessionCache, sessions *SessionStore) *SessionReaper {
	return &SessionReaper{rdb: rdb, cache: cache, sessions: sessions, interval: 30 * time.Second}
}

// Start listens for expired idle keys and runs the polling fallback until
// ctx is done.
func (r *SessionReaper) Start(ctx context.Context) {
	if r.rdb != nil {
		go r.listenKeyspace(ctx)
	}
	r.pollIdle(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (r *SessionReaper) listenKeyspace(ctx context.Context) {
	pubsub := r.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Session reaper started, listening for expired idle keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handleExpiry(msg.Payload)
		}
	}
}

func (r *SessionReaper) pollIdle(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Msg("Idle session poller started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Idle session poller stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep evicts every live session whose idle key is gone.
func (r *SessionReaper) sweep(ctx context.Context) {
	for _, id := range r.sessions.LiveIDs() {
		ok, err := r.cache.HasIdle(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("gameId", id).Msg("Failed to check idle key")
			continue
		}
		if !ok && r.sessions.Evict(id) {
			log.Info().Str("gameId", id).Msg("Poller evicted idle session")
		}
	}
}

// handleExpiry processes an expired key. Only acts on session idle keys.
func (r *SessionReaper) handleExpiry(key string) {
	gameID, ok := redisrepo.IdleKeyGameID(key)
	if !ok {
		return
	}
	if r.sessions.Evict(gameID) {
		log.Info().Str("gameId", gameID).Msg("Idle key expired, session evicted")
	}
}
