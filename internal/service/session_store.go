package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/internal/bot"
	"github.com/freeeve/sengoku/api/internal/model"
	"github.com/freeeve/sengoku/api/internal/repository"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// ErrSessionMissing is returned when neither memory nor the cache holds a
// game's engine session.
var ErrSessionMissing = errors.New("session state missing")

// SessionStore keeps live engine sessions in memory, backed by the session
// cache. Callers must hold the game's lock while using a session.
type SessionStore struct {
	cache    repository.SessionCache
	scenario fs.FS
	catalog  *sengoku.EventCatalog
	idleTTL  time.Duration

	mu    sync.Mutex
	live  map[string]*sengoku.Session
	locks sync.Map
}

// NewSessionStore loads the scenario's event catalog once for restores.
func NewSessionStore(cache repository.SessionCache, scenario fs.FS, idleTTL time.Duration) (*SessionStore, error) {
	_, catalog, err := sengoku.LoadScenario(scenario)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	return &SessionStore{
		cache:    cache,
		scenario: scenario,
		catalog:  catalog,
		idleTTL:  idleTTL,
		live:     make(map[string]*sengoku.Session),
	}, nil
}

// Lock returns the per-game mutex.
func (s *SessionStore) Lock(gameID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(gameID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// New starts a fresh session from the scenario. It is not stored until Put.
func (s *SessionStore) New(seed uint64, difficulty string) (*sengoku.Session, error) {
	gs, catalog, err := sengoku.LoadScenario(s.scenario)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	return sengoku.NewSession(gs, catalog, bot.StrategyForDifficulty(difficulty), seed), nil
}

// Get returns the live session for game, restoring it from the cache when
// it is not in memory.
func (s *SessionStore) Get(ctx context.Context, game *model.Game) (*sengoku.Session, error) {
	s.mu.Lock()
	sess := s.live[game.ID]
	s.mu.Unlock()
	if sess != nil {
		return sess, nil
	}

	raw, err := s.cache.GetSession(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if raw == nil {
		return nil, ErrSessionMissing
	}
	var snap sengoku.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	sess, err = sengoku.RestoreSession(snap, s.catalog, bot.StrategyForDifficulty(game.Difficulty))
	if err != nil {
		return nil, err
	}
	log.Info().Str("gameId", game.ID).Int("turn", snap.State.Turn).Bool("midTurn", snap.Turn != nil).Msg("Session restored from cache")

	s.mu.Lock()
	s.live[game.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Put snapshots sess into the cache, refreshes its idle key and keeps it
// in memory.
func (s *SessionStore) Put(ctx context.Context, gameID string, sess *sengoku.Session) error {
	snap, err := sess.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot session: %w", err)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.SetSession(ctx, gameID, raw); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}
	if err := s.cache.TouchIdle(ctx, gameID, s.idleTTL); err != nil {
		return fmt.Errorf("touch idle: %w", err)
	}
	s.mu.Lock()
	s.live[gameID] = sess
	s.mu.Unlock()
	return nil
}

// Evict drops the in-memory session. The cached snapshot stays.
func (s *SessionStore) Evict(gameID string) bool {
	mu := s.Lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[gameID]; !ok {
		return false
	}
	delete(s.live, gameID)
	return true
}

// Discard forgets the in-memory session without taking the game lock, for
// callers that already hold it. The next Get restores the cached snapshot.
func (s *SessionStore) Discard(gameID string) {
	s.mu.Lock()
	delete(s.live, gameID)
	s.mu.Unlock()
}

// Drop removes the session from memory and the cache.
func (s *SessionStore) Drop(ctx context.Context, gameID string) error {
	s.mu.Lock()
	delete(s.live, gameID)
	s.mu.Unlock()
	return s.cache.DeleteSession(ctx, gameID)
}

// LiveIDs lists the games with an in-memory session.
func (s *SessionStore) LiveIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	return ids
}
