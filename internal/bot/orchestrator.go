package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// Orchestrator plays one game on a remote server with the autopilot.
type Orchestrator struct {
	client   *Client
	pilot    *Autopilot
	gameName string
	seed     uint64
	maxTurns int
	wait     time.Duration
}

// OrchestratorConfig configures a remote game.
type OrchestratorConfig struct {
	BaseURL    string
	BotName    string
	GameName   string
	Seed       uint64
	Difficulty string // computer lords, chosen server-side
	Strategy   Strategy
	Catalog    *sengoku.EventCatalog
	MaxTurns   int
	EventWait  time.Duration // how long to wait for the game_ended push
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.BotName == "" {
		cfg.BotName = "Bot"
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = sengoku.VictoryTurnLimit
	}
	if cfg.EventWait == 0 {
		cfg.EventWait = 10 * time.Second
	}
	if cfg.Seed == 0 {
		cfg.Seed = NextSeed()
	}
	return &Orchestrator{
		client:   NewClient(cfg.BotName, cfg.BaseURL),
		pilot:    NewAutopilot(cfg.Strategy, cfg.Catalog, cfg.Seed),
		gameName: cfg.GameName,
		seed:     cfg.Seed,
		maxTurns: cfg.MaxTurns,
		wait:     cfg.EventWait,
	}
}

// Run logs in, creates a game and plays it until it ends or the turn cap is
// reached. It returns the final game row.
func (o *Orchestrator) Run(ctx context.Context, difficulty string) (*GameInfo, error) {
	log.Info().Str("strategy", o.pilot.Strategy().Name()).Uint64("seed", o.seed).Msg("Starting remote bot game")

	if err := o.client.Login(); err != nil {
		return nil, fmt.Errorf("login %s: %w", o.client.Name(), err)
	}
	game, err := o.client.CreateGame(o.gameName, o.seed, difficulty)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	log.Info().Str("gameId", game.ID).Int("playerLord", game.PlayerLord).Msg("Game created")

	if err := o.client.ConnectWS(); err != nil {
		return nil, fmt.Errorf("ws connect: %w", err)
	}
	defer o.client.CloseWS()
	if err := o.client.SubscribeGame(game.ID); err != nil {
		return nil, fmt.Errorf("ws subscribe: %w", err)
	}

	if err := o.playLoop(ctx, game.ID); err != nil {
		return nil, err
	}
	return o.client.GetGame(game.ID)
}

// playLoop fetches the state, answers PlayerTurn when asked and advances
// until the server reports the game finished.
func (o *Orchestrator) playLoop(ctx context.Context, gameID string) error {
	turnsDone := 0
	for turnsDone < o.maxTurns {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping bot")
			return ctx.Err()
		default:
		}

		view, err := o.client.GetState(gameID)
		if err != nil {
			return fmt.Errorf("get state: %w", err)
		}
		if view.Ended {
			return nil
		}

		var cmds *sengoku.PlayerCommandsInput
		if view.Waiting {
			in := o.pilot.Commands(view.State, view.State.PlayerLord).Input()
			cmds = &in
			log.Debug().Int("internal", len(in.Internal)).Int("military", len(in.Military)).Msg("Commands planned")
		}

		res, err := o.client.Advance(gameID, cmds)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if res.TurnDone {
			turnsDone++
			log.Info().Str("gameId", gameID).Int("turn", res.Turn).Int("events", len(res.Events)).Msg("Turn completed")
		}
		if res.Finished {
			ev, err := o.waitForEvent(ctx, "game_ended")
			if err != nil {
				log.Warn().Err(err).Msg("No game_ended push received")
				return nil
			}
			log.Info().Any("winner", ev.Data["winner"]).Str("result", fmt.Sprint(ev.Data["result"])).Msg("Game ended")
			return nil
		}
	}
	log.Info().Str("gameId", gameID).Int("turns", turnsDone).Msg("Turn cap reached")
	return nil
}

// waitForEvent blocks until one of the given event types is received or context cancels.
func (o *Orchestrator) waitForEvent(ctx context.Context, eventTypes ...string) (WSEvent, error) {
	typeSet := make(map[string]bool)
	for _, t := range eventTypes {
		typeSet[t] = true
	}

	timeout := time.After(o.wait)
	for {
		select {
		case <-ctx.Done():
			return WSEvent{}, ctx.Err()
		case <-timeout:
			return WSEvent{}, fmt.Errorf("timeout waiting for events %v", eventTypes)
		case event, ok := <-o.client.Events():
			if !ok {
				return WSEvent{}, fmt.Errorf("ws connection closed")
			}
			if typeSet[event.Type] {
				return event, nil
			}
			log.Debug().Str("type", event.Type).Msg("Ignoring event")
		}
	}
}
