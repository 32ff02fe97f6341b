package bot

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/data"
	"github.com/freeeve/sengoku/api/internal/archive"
	"github.com/freeeve/sengoku/api/internal/model"
	"github.com/freeeve/sengoku/api/internal/repository"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// ArenaConfig configures a single all-AI game.
type ArenaConfig struct {
	GameName         string
	Difficulty       string // strategy for computer lords
	PlayerDifficulty string // strategy for the autopilot playing the human lord
	MaxTurns         int    // cap for a draw; 0 uses sengoku.VictoryTurnLimit
	Seed             uint64 // 0 = random
	DryRun           bool   // skip DB writes
	Scenario         fs.FS  // nil = embedded scenario
}

// ArenaResult describes the outcome of a completed arena game.
type ArenaResult struct {
	GameID     string
	Seed       uint64
	Outcome    string // model.ResultVictory, ResultGameOver or ResultTurnCap
	Winner     int
	WinnerName string
	Turns      int
	Battles    int
	Provinces  map[string]int // lord name -> provinces held at the end
}

// ArenaRepos are the stores an arena game writes to. Unused in dry-run mode.
type ArenaRepos struct {
	Games   repository.GameRepository
	Users   repository.UserRepository
	Turns   repository.TurnRepository
	Battles repository.BattleRepository
}

// RunGame plays a full game with the autopilot in the player's seat, saving
// the results to Postgres unless cfg.DryRun is set.
func RunGame(ctx context.Context, cfg ArenaConfig, repos ArenaRepos) (*ArenaResult, error) {
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = sengoku.VictoryTurnLimit
	}
	if cfg.Seed == 0 {
		cfg.Seed = NextSeed()
	}
	if cfg.Scenario == nil {
		cfg.Scenario = data.FS
	}

	gs, catalog, err := sengoku.LoadScenario(cfg.Scenario)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	sess := sengoku.NewSession(gs, catalog, StrategyForDifficulty(cfg.Difficulty), cfg.Seed)
	pilot := NewAutopilot(StrategyForDifficulty(cfg.PlayerDifficulty), catalog, cfg.Seed^0x9e3779b97f4a7c15)

	result := &ArenaResult{Seed: cfg.Seed, Provinces: make(map[string]int)}
	if !cfg.DryRun {
		result.GameID, err = createArenaGame(ctx, cfg, gs.PlayerLord, repos)
		if err != nil {
			return nil, fmt.Errorf("create arena game: %w", err)
		}
	}
	writer := archive.Writer{Turns: repos.Turns, Battles: repos.Battles}

	for result.Turns < cfg.MaxTurns {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		battles, outcome, err := playTurn(sess, pilot)
		if err != nil {
			return nil, fmt.Errorf("play turn %d: %w", gs.Turn, err)
		}
		result.Turns++
		result.Battles += len(battles)

		if !cfg.DryRun {
			if err := writer.SaveBattles(ctx, result.GameID, battles); err != nil {
				return nil, err
			}
			if err := writer.SaveTurn(ctx, result.GameID, gs, sess.Current.Log()); err != nil {
				return nil, err
			}
			if err := repos.Games.UpdateTurn(ctx, result.GameID, gs.Turn); err != nil {
				return nil, fmt.Errorf("update turn: %w", err)
			}
		}

		if outcome.Ended() {
			result.Winner = outcome.Winner
			result.Outcome = model.ResultGameOver
			if outcome.Winner != 0 {
				result.Outcome = model.ResultVictory
				result.WinnerName = gs.LordName(outcome.Winner)
			}
			break
		}
	}
	if result.Outcome == "" {
		result.Outcome = model.ResultTurnCap
	}
	fillProvinceCounts(result, gs)

	if !cfg.DryRun {
		if err := repos.Games.SetFinished(ctx, result.GameID, result.Outcome, result.WinnerName); err != nil {
			return nil, fmt.Errorf("set finished: %w", err)
		}
	}
	log.Info().Str("gameId", result.GameID).Uint64("seed", cfg.Seed).Str("outcome", result.Outcome).
		Str("winner", result.WinnerName).Int("turns", result.Turns).Msg("Arena game finished")
	return result, nil
}

// playTurn drives one turn to completion, answering PlayerTurn with the
// autopilot and collecting battle reports.
func playTurn(sess *sengoku.Session, pilot *Autopilot) ([]*sengoku.BattleReport, sengoku.TurnResult, error) {
	var battles []*sengoku.BattleReport
	var resume *sengoku.PlayerCommands
	for {
		step, err := sess.Advance(resume)
		if err != nil {
			return nil, sengoku.TurnResult{}, err
		}
		resume = nil
		if step.Done {
			return battles, step.Result, nil
		}
		switch ev := step.Event; {
		case ev.Battle != nil:
			battles = append(battles, ev.Battle)
		case ev.NeedsCommands():
			resume = pilot.Commands(sess.State, sess.State.PlayerLord)
		}
	}
}

// createArenaGame registers a bot user and the game row.
func createArenaGame(ctx context.Context, cfg ArenaConfig, playerLord int, repos ArenaRepos) (string, error) {
	diff := cfg.Difficulty
	if diff == "" {
		diff = DifficultyNormal
	}
	user, err := repos.Users.Upsert(ctx, "bot", "botmatch-"+diff, fmt.Sprintf("Bot (%s)", diff), "")
	if err != nil {
		return "", fmt.Errorf("upsert bot user: %w", err)
	}
	name := cfg.GameName
	if name == "" {
		name = "botmatch"
	}
	game, err := repos.Games.Create(ctx, name, user.ID, int64(cfg.Seed), diff, playerLord)
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	return game.ID, nil
}

func fillProvinceCounts(result *ArenaResult, gs *sengoku.GameState) {
	for _, id := range gs.LordIDs() {
		l := gs.Lord(id)
		if l == nil || !l.Alive {
			continue
		}
		result.Provinces[l.Name] = len(gs.OwnedProvinces(id))
	}
}
