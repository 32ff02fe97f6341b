package bot

import (
	"context"
	"fmt"

	"github.com/freeeve/sengoku/api/internal/model"
)

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) FindByProviderID(_ context.Context, provider, providerID string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error) {
	if u, _ := m.FindByProviderID(ctx, provider, providerID); u != nil {
		u.DisplayName = displayName
		return u, nil
	}
	u := &model.User{ID: fmt.Sprintf("user-%d", len(m.users)+1), Provider: provider, ProviderID: providerID, DisplayName: displayName}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) UpdateDisplayName(_ context.Context, id, displayName string) error {
	if u := m.users[id]; u != nil {
		u.DisplayName = displayName
	}
	return nil
}

type mockGameRepo struct {
	games map[string]*model.Game
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{games: make(map[string]*model.Game)}
}

func (m *mockGameRepo) Create(_ context.Context, name, creatorID string, seed int64, difficulty string, playerLord int) (*model.Game, error) {
	g := &model.Game{
		ID: fmt.Sprintf("game-%d", len(m.games)+1), Name: name, CreatorID: creatorID, Status: model.GameActive,
		Seed: seed, Difficulty: difficulty, PlayerLord: playerLord,
	}
	m.games[g.ID] = g
	return g, nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	return m.games[id], nil
}

func (m *mockGameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	var out []model.Game
	for _, g := range m.games {
		if g.CreatorID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *mockGameRepo) ListFinished(context.Context) ([]model.Game, error) {
	var out []model.Game
	for _, g := range m.games {
		if g.Status == model.GameFinished {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *mockGameRepo) UpdateTurn(_ context.Context, gameID string, turn int) error {
	if g := m.games[gameID]; g != nil {
		g.Turn = turn
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, result, winner string) error {
	if g := m.games[gameID]; g != nil {
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

func (m *mockTurnRepo) ListTurns(context.Context, string) ([]model.TurnRecord, error) {
	return m.turns, nil
}

func (m *mockTurnRepo) SaveEvents(_ context.Context, events []model.EventRecord) error {
	m.events = append(m.events, events...)
	return nil
}

func (m *mockTurnRepo) ListEvents(context.Context, string) ([]model.EventRecord, error) {
	return m.events, nil
}

type mockBattleRepo struct {
	battles []model.BattleRecord
}

func (m *mockBattleRepo) SaveBattles(_ context.Context, battles []model.BattleRecord) error {
	m.battles = append(m.battles, battles...)
	return nil
}

func (m *mockBattleRepo) ListBattles(context.Context, string) ([]model.BattleRecord, error) {
	return m.battles, nil
}
