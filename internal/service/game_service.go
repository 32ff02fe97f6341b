package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/internal/bot"
	"github.com/freeeve/sengoku/api/internal/model"
	"github.com/freeeve/sengoku/api/internal/repository"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrNotYourGame       = errors.New("you are not in this game")
	ErrGameFinished      = errors.New("game is finished")
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// Engine protocol errors, surfaced as-is.
	ErrAwaitingCommands   = sengoku.ErrAwaitingCommands
	ErrUnexpectedCommands = sengoku.ErrUnexpectedCommands
	ErrTurnFinished       = sengoku.ErrTurnFinished
	ErrInvalidCommand     = sengoku.ErrInvalidCommand
)

// StateView is the live engine state of a game. State is pre-encoded under
// the game lock.
type StateView struct {
	State   json.RawMessage    `json:"state"`
	Waiting bool               `json:"waiting"`
	Ended   bool               `json:"ended"`
	Outcome sengoku.TurnResult `json:"outcome"`
}

// GameService handles game lifecycle and read operations.
type GameService struct {
	gameRepo   repository.GameRepository
	turnRepo   repository.TurnRepository
	battleRepo repository.BattleRepository
	sessions   *SessionStore

	defaultDifficulty string
}

// NewGameService creates a GameService.
func NewGameService(
	gameRepo repository.GameRepository,
	turnRepo repository.TurnRepository,
	battleRepo repository.BattleRepository,
	sessions *SessionStore,
	defaultDifficulty string,
) *GameService {
	if defaultDifficulty == "" {
		defaultDifficulty = bot.DifficultyNormal
	}
	return &GameService{
		gameRepo:          gameRepo,
		turnRepo:          turnRepo,
		battleRepo:        battleRepo,
		sessions:          sessions,
		defaultDifficulty: defaultDifficulty,
	}
}

// CreateGame starts a new campaign for userID. A zero seed picks a random one.
func (s *GameService) CreateGame(ctx context.Context, userID, name string, seed uint64, difficulty string) (*model.Game, error) {
	if difficulty == "" {
		difficulty = s.defaultDifficulty
	}
	if !bot.ValidDifficulty(difficulty) {
		return nil, ErrInvalidDifficulty
	}
	if name == "" {
		name = "Sengoku"
	}
	if seed == 0 {
		seed = bot.NextSeed()
	}

	sess, err := s.sessions.New(seed, difficulty)
	if err != nil {
		return nil, err
	}
	game, err := s.gameRepo.Create(ctx, name, userID, int64(seed), difficulty, sess.State.PlayerLord)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, game.ID, sess); err != nil {
		return nil, err
	}
	log.Info().Str("gameId", game.ID).Str("userId", userID).Uint64("seed", seed).Str("difficulty", difficulty).Msg("Game created")
	return game, nil
}

// GetGame returns a game owned by userID.
func (s *GameService) GetGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.CreatorID != userID {
		return nil, ErrNotYourGame
	}
	return game, nil
}

// ListGames returns the user's games, newest first.
func (s *GameService) ListGames(ctx context.Context, userID string) ([]model.Game, error) {
	return s.gameRepo.ListByUser(ctx, userID)
}

// DeleteGame removes a game and its cached session.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	if _, err := s.GetGame(ctx, gameID, userID); err != nil {
		return err
	}
	mu := s.sessions.Lock(gameID)
	mu.Lock()
	defer mu.Unlock()
	if err := s.sessions.Drop(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to drop cached session")
	}
	return s.gameRepo.Delete(ctx, gameID)
}

// GetState returns the live engine state.
func (s *GameService) GetState(ctx context.Context, gameID, userID string) (*StateView, error) {
	game, err := s.GetGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	mu := s.sessions.Lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.sessions.Get(ctx, game)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(sess.State)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return &StateView{
		State:   raw,
		Waiting: sess.Current != nil && sess.Current.Waiting(),
		Ended:   sess.Ended() || game.Status == model.GameFinished,
		Outcome: sess.Outcome,
	}, nil
}

// ListTurns returns the archived turns of a game.
func (s *GameService) ListTurns(ctx context.Context, gameID, userID string) ([]model.TurnRecord, error) {
	if _, err := s.GetGame(ctx, gameID, userID); err != nil {
		return nil, err
	}
	return s.turnRepo.ListTurns(ctx, gameID)
}

// ListBattles returns the battle reports of a game.
func (s *GameService) ListBattles(ctx context.Context, gameID, userID string) ([]model.BattleRecord, error) {
	if _, err := s.GetGame(ctx, gameID, userID); err != nil {
		return nil, err
	}
	return s.battleRepo.ListBattles(ctx, gameID)
}

// ListEvents returns the event history of a game.
func (s *GameService) ListEvents(ctx context.Context, gameID, userID string) ([]model.EventRecord, error) {
	if _, err := s.GetGame(ctx, gameID, userID); err != nil {
		return nil, err
	}
	return s.turnRepo.ListEvents(ctx, gameID)
}

// Predict previews an attack by the player without changing the game.
func (s *GameService) Predict(ctx context.Context, gameID, userID string, from, to, force, general int) (*sengoku.Prediction, error) {
	game, err := s.GetGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	mu := s.sessions.Lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.sessions.Get(ctx, game)
	if err != nil {
		return nil, err
	}
	if p := sess.State.Province(from); p == nil || p.Owner != sess.State.PlayerLord {
		return nil, fmt.Errorf("%w: province %d is not yours", ErrInvalidCommand, from)
	}
	pred, res := sengoku.PredictAttack(sess.State, from, to, force, general)
	if !res.OK {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCommand, res.Message)
	}
	return &pred, nil
}
