package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/internal/archive"
	"github.com/freeeve/sengoku/api/internal/model"
	"github.com/freeeve/sengoku/api/internal/repository"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// AdvanceResult is what one advance call produced.
type AdvanceResult struct {
	Events   []sengoku.Event    `json:"events"`
	Waiting  bool               `json:"waiting"`
	TurnDone bool               `json:"turn_done"`
	Turn     int                `json:"turn"`
	Finished bool               `json:"finished"`
	Outcome  sengoku.TurnResult `json:"outcome"`
}

// TurnService drives the engine for hosted games.
type TurnService struct {
	gameRepo    repository.GameRepository
	archive     archive.Writer
	sessions    *SessionStore
	broadcaster Broadcaster

	// DelayScale multiplies AIActionDelay pauses. Zero disables them.
	DelayScale float64
	// TurnLimit ends a game as a draw once reached. Zero disables it.
	TurnLimit int
}

// NewTurnService creates a TurnService.
func NewTurnService(
	gameRepo repository.GameRepository,
	turnRepo repository.TurnRepository,
	battleRepo repository.BattleRepository,
	sessions *SessionStore,
	broadcaster Broadcaster,
) *TurnService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &TurnService{
		gameRepo:    gameRepo,
		archive:     archive.Writer{Turns: turnRepo, Battles: battleRepo},
		sessions:    sessions,
		broadcaster: broadcaster,
		DelayScale:  1,
		TurnLimit:   sengoku.VictoryTurnLimit,
	}
}

// Advance runs the game's engine until the player is asked for commands or
// the current turn completes. in must be non-nil exactly when the game is
// waiting for the player; an empty body is accepted while not waiting.
func (s *TurnService) Advance(ctx context.Context, gameID, userID string, in *sengoku.PlayerCommandsInput) (*AdvanceResult, error) {
	mu := s.sessions.Lock(gameID)
	mu.Lock()
	defer mu.Unlock()

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
	if game.Status == model.GameFinished {
		return nil, ErrGameFinished
	}

	sess, err := s.sessions.Get(ctx, game)
	if err != nil {
		return nil, err
	}
	if sess.Ended() {
		return nil, ErrGameFinished
	}
	resume, err := resumeCommands(sess, in)
	if err != nil {
		return nil, err
	}

	res, err := s.run(ctx, game, sess, resume)
	if err != nil {
		// The engine may have moved past the cached snapshot. Forget it so
		// the next call replays from the last stored point.
		s.sessions.Discard(gameID)
		log.Warn().Err(err).Str("gameId", gameID).Int("turn", sess.State.Turn).Msg("Advance failed, live session discarded")
		return nil, err
	}
	return res, nil
}

// run drives sess until it waits or the turn ends, then archives and caches
// the new position.
func (s *TurnService) run(ctx context.Context, game *model.Game, sess *sengoku.Session, resume *sengoku.PlayerCommands) (*AdvanceResult, error) {
	res := &AdvanceResult{}
	var battles []*sengoku.BattleReport
	for {
		step, err := sess.Advance(resume)
		if err != nil {
			return nil, err
		}
		resume = nil
		if step.Done {
			res.TurnDone = true
			res.Outcome = step.Result
			break
		}
		ev := *step.Event
		res.Events = append(res.Events, ev)
		s.broadcaster.BroadcastGameEvent(game.ID, EventEngine, ev)
		if ev.Battle != nil {
			battles = append(battles, ev.Battle)
		}
		if ev.Kind == sengoku.EventAIActionDelay {
			if err := s.pause(ctx, ev.DelaySeconds); err != nil {
				return nil, err
			}
		}
		if ev.NeedsCommands() {
			res.Waiting = true
			break
		}
	}
	res.Turn = sess.State.Turn

	if err := s.archive.SaveBattles(ctx, game.ID, battles); err != nil {
		return nil, err
	}
	if res.TurnDone {
		if err := s.completeTurn(ctx, game, sess, res); err != nil {
			return nil, err
		}
	}
	if err := s.sessions.Put(ctx, game.ID, sess); err != nil {
		return nil, err
	}
	return res, nil
}

// resumeCommands validates in against the session's suspension state.
func resumeCommands(sess *sengoku.Session, in *sengoku.PlayerCommandsInput) (*sengoku.PlayerCommands, error) {
	waiting := sess.Current != nil && sess.Current.Waiting()
	if !waiting {
		if in != nil && (len(in.Internal) > 0 || len(in.Military) > 0 || len(in.EventChoices) > 0) {
			return nil, ErrUnexpectedCommands
		}
		return nil, nil
	}
	if in == nil {
		return nil, ErrAwaitingCommands
	}
	cmds, err := in.Parse()
	if err != nil {
		if errors.Is(err, ErrInvalidCommand) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return cmds, nil
}

func (s *TurnService) completeTurn(ctx context.Context, game *model.Game, sess *sengoku.Session, res *AdvanceResult) error {
	gs := sess.State
	if err := s.archive.SaveTurn(ctx, game.ID, gs, sess.Current.Log()); err != nil {
		return err
	}
	if err := s.gameRepo.UpdateTurn(ctx, game.ID, gs.Turn); err != nil {
		return fmt.Errorf("update turn: %w", err)
	}
	log.Info().Str("gameId", game.ID).Int("turn", gs.Turn).Int("year", gs.Year()).Str("season", gs.Season.String()).Msg("Turn completed")
	s.broadcaster.BroadcastGameEvent(game.ID, EventTurnCompleted, map[string]any{
		"turn":   gs.Turn,
		"year":   gs.Year(),
		"season": gs.Season.String(),
	})

	var result, winner string
	switch {
	case res.Outcome.Winner != 0:
		result, winner = model.ResultVictory, gs.LordName(res.Outcome.Winner)
	case res.Outcome.GameOver:
		result = model.ResultGameOver
	case s.TurnLimit > 0 && gs.Turn >= s.TurnLimit:
		result = model.ResultTurnCap
	default:
		return nil
	}
	if err := s.gameRepo.SetFinished(ctx, game.ID, result, winner); err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	res.Finished = true
	log.Info().Str("gameId", game.ID).Str("result", result).Str("winner", winner).Int("turn", gs.Turn).Msg("Game ended")
	s.broadcaster.BroadcastGameEvent(game.ID, EventGameEnded, map[string]any{
		"result": result,
		"winner": winner,
	})
	return nil
}

func (s *TurnService) pause(ctx context.Context, seconds float64) error {
	d := time.Duration(seconds * s.DelayScale * float64(time.Second))
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
