package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/freeeve/sengoku/api/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// GameRepository defines game data operations.
type GameRepository interface {
	Create(ctx context.Context, name, creatorID string, seed int64, difficulty string, playerLord int) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	ListFinished(ctx context.Context) ([]model.Game, error)
	UpdateTurn(ctx context.Context, gameID string, turn int) error
	SetFinished(ctx context.Context, gameID, result, winner string) error
	Delete(ctx context.Context, gameID string) error
}

// TurnRepository archives completed turns and their event history.
type TurnRepository interface {
	SaveTurn(ctx context.Context, rec model.TurnRecord) (*model.TurnRecord, error)
	ListTurns(ctx context.Context, gameID string) ([]model.TurnRecord, error)
	SaveEvents(ctx context.Context, events []model.EventRecord) error
	ListEvents(ctx context.Context, gameID string) ([]model.EventRecord, error)
}

// BattleRepository archives battle reports.
type BattleRepository interface {
	SaveBattles(ctx context.Context, battles []model.BattleRecord) error
	ListBattles(ctx context.Context, gameID string) ([]model.BattleRecord, error)
}

// SessionCache holds live engine sessions (Redis).
type SessionCache interface {
	SetSession(ctx context.Context, gameID string, snapshot json.RawMessage) error
	GetSession(ctx context.Context, gameID string) (json.RawMessage, error)
	TouchIdle(ctx context.Context, gameID string, ttl time.Duration) error
	HasIdle(ctx context.Context, gameID string) (bool, error)
	DeleteSession(ctx context.Context, gameID string) error
}
