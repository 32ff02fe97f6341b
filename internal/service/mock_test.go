package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/freeeve/sengoku/api/internal/model"
)

type mockGameRepo struct {
	games map[string]*model.Game
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{games: make(map[string]*model.Game)}
}

func (m *mockGameRepo) Create(_ context.Context, name, creatorID string, seed int64, difficulty string, playerLord int) (*model.Game, error) {
	g := &model.Game{
		ID:         fmt.Sprintf("game-%d", len(m.games)+1),
		Name:       name,
		CreatorID:  creatorID,
		Status:     model.GameActive,
		Seed:       seed,
		Difficulty: difficulty,
		PlayerLord: playerLord,
		CreatedAt:  time.Now(),
	}
	m.games[g.ID] = g
	return g, nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *mockGameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.CreatorID == userID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGameRepo) ListFinished(_ context.Context) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.Status == model.GameFinished {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGameRepo) UpdateTurn(_ context.Context, gameID string, turn int) error {
	if g, ok := m.games[gameID]; ok {
		g.Turn = turn
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, result, winner string) error {
	if g, ok := m.games[gameID]; ok {
		now := time.Now()
		g.Status = model.GameFinished
		g.Result = result
		g.Winner = winner
		g.FinishedAt = &now
	}
	return nil
}

func (m *mockGameRepo) Delete(_ context.Context, gameID string) error {
	delete(m.games, gameID)
	return nil
}

type mockTurnRepo struct {
	turns  []model.TurnRecord
	events []model.EventRecord
	err    error // returned by SaveTurn when set
}

func (m *mockTurnRepo) SaveTurn(_ context.Context, rec model.TurnRecord) (*model.TurnRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.turns = append(m.turns, rec)
	return &rec, nil
}

func (m *mockTurnRepo) ListTurns(_ context.Context, gameID string) ([]model.TurnRecord, error) {
	var out []model.TurnRecord
	for _, t := range m.turns {
		if t.GameID == gameID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTurnRepo) SaveEvents(_ context.Context, events []model.EventRecord) error {
	m.events = append(m.events, events...)
	return nil
}

func (m *mockTurnRepo) ListEvents(_ context.Context, gameID string) ([]model.EventRecord, error) {
	var out []model.EventRecord
	for _, e := range m.events {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockBattleRepo struct {
	battles []model.BattleRecord
	err     error
}

// SaveBattles skips rows already stored under the same turn and sequence
// number, like the unique index in Postgres.
func (m *mockBattleRepo) SaveBattles(_ context.Context, battles []model.BattleRecord) error {
	if m.err != nil {
		return m.err
	}
	for _, b := range battles {
		dup := false
		for _, have := range m.battles {
			if have.GameID == b.GameID && have.Turn == b.Turn && have.Seq == b.Seq {
				dup = true
				break
			}
		}
		if !dup {
			m.battles = append(m.battles, b)
		}
	}
	return nil
}

func (m *mockBattleRepo) ListBattles(_ context.Context, gameID string) ([]model.BattleRecord, error) {
	var out []model.BattleRecord
	for _, b := range m.battles {
		if b.GameID == gameID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockSessionCache struct {
	mu    sync.Mutex
	state map[string]json.RawMessage
	idle  map[string]time.Duration
}

func newMockSessionCache() *mockSessionCache {
	return &mockSessionCache{state: make(map[string]json.RawMessage), idle: make(map[string]time.Duration)}
}

func (m *mockSessionCache) SetSession(_ context.Context, gameID string, snapshot json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state[gameID] = append(json.RawMessage(nil), snapshot...)
	return nil
}

func (m *mockSessionCache) GetSession(_ context.Context, gameID string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state[gameID], nil
}

func (m *mockSessionCache) TouchIdle(_ context.Context, gameID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle[gameID] = ttl
	return nil
}

func (m *mockSessionCache) HasIdle(_ context.Context, gameID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.idle[gameID]
	return ok, nil
}

func (m *mockSessionCache) DeleteSession(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state, gameID)
	delete(m.idle, gameID)
	return nil
}

// expire simulates the idle key's TTL running out.
func (m *mockSessionCache) expire(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.idle, gameID)
}

type broadcastRecord struct {
	gameID    string
	eventType string
	data      any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastRecord
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastRecord{gameID: gameID, eventType: eventType, data: data})
}

func (b *recordingBroadcaster) count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.eventType == eventType {
			n++
		}
	}
	return n
}
