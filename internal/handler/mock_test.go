package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/freeeve/sengoku/api/internal/model"
)

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *mockUserRepo) FindByProviderID(_ context.Context, provider, providerID string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Upsert(_ context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			u.DisplayName = displayName
			return u, nil
		}
	}
	m.seq++
	u := &model.User{
		ID:          fmt.Sprintf("user-%d", m.seq),
		Provider:    provider,
		ProviderID:  providerID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) UpdateDisplayName(_ context.Context, id, displayName string) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.DisplayName = displayName
	return nil
}

type mockGameRepo struct {
	games map[string]*model.Game
	seq   int
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{games: make(map[string]*model.Game)}
}

func (m *mockGameRepo) Create(_ context.Context, name, creatorID string, seed int64, difficulty string, playerLord int) (*model.Game, error) {
	m.seq++
	g := &model.Game{
		ID:         fmt.Sprintf("game-%d", m.seq),
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
	return nil, nil
}

func (m *mockGameRepo) UpdateTurn(_ context.Context, gameID string, turn int) error {
	if g, ok := m.games[gameID]; ok {
		g.Turn = turn
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, result, winner string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = model.GameFinished
		g.Result = result
		g.Winner = winner
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
}

func (m *mockTurnRepo) SaveTurn(_ context.Context, rec model.TurnRecord) (*model.TurnRecord, error) {
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
}

func (m *mockBattleRepo) SaveBattles(_ context.Context, battles []model.BattleRecord) error {
	m.battles = append(m.battles, battles...)
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
}

func newMockSessionCache() *mockSessionCache {
	return &mockSessionCache{state: make(map[string]json.RawMessage)}
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

func (m *mockSessionCache) TouchIdle(context.Context, string, time.Duration) error { return nil }

func (m *mockSessionCache) HasIdle(context.Context, string) (bool, error) { return true, nil }

func (m *mockSessionCache) DeleteSession(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state, gameID)
	return nil
}
