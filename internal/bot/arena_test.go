package bot

import (
	"context"
	"testing"

	"github.com/freeeve/sengoku/api/internal/model"
)

func TestRunGameDryRun(t *testing.T) {
	ctx := context.Background()
	cfg := ArenaConfig{
		GameName:   "test-dry-run",
		Difficulty: DifficultyNormal,
		MaxTurns:   12,
		Seed:       42,
		DryRun:     true,
	}

	result, err := RunGame(ctx, cfg, ArenaRepos{})
	if err != nil {
		t.Fatalf("RunGame failed: %v", err)
	}
	if result.Turns == 0 || result.Turns > cfg.MaxTurns {
		t.Errorf("Expected 1..%d turns, got %d", cfg.MaxTurns, result.Turns)
	}
	switch result.Outcome {
	case model.ResultVictory, model.ResultGameOver, model.ResultTurnCap:
	default:
		t.Errorf("Unexpected outcome %q", result.Outcome)
	}
	if result.Outcome == model.ResultTurnCap && result.Turns != cfg.MaxTurns {
		t.Errorf("Turn cap reported after %d turns", result.Turns)
	}

	total := 0
	for _, n := range result.Provinces {
		total += n
	}
	if total == 0 {
		t.Error("Expected living lords to hold provinces")
	}
	t.Logf("Result: outcome=%s winner=%q turns=%d battles=%d", result.Outcome, result.WinnerName, result.Turns, result.Battles)
}

func TestRunGameDeterministic(t *testing.T) {
	ctx := context.Background()
	cfg := ArenaConfig{Difficulty: DifficultyAggressive, MaxTurns: 20, Seed: 7, DryRun: true}

	a, err := RunGame(ctx, cfg, ArenaRepos{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := RunGame(ctx, cfg, ArenaRepos{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a.Turns != b.Turns || a.Battles != b.Battles || a.Outcome != b.Outcome || a.Winner != b.Winner {
		t.Errorf("Same seed diverged: %+v vs %+v", a, b)
	}
	for name, n := range a.Provinces {
		if b.Provinces[name] != n {
			t.Errorf("%s holds %d vs %d provinces", name, n, b.Provinces[name])
		}
	}
}

func TestRunGameAllDifficulties(t *testing.T) {
	for _, diff := range []string{DifficultyNormal, DifficultyAggressive, DifficultyPassive} {
		t.Run(diff, func(t *testing.T) {
			cfg := ArenaConfig{Difficulty: diff, PlayerDifficulty: diff, MaxTurns: 8, Seed: 99, DryRun: true}
			if _, err := RunGame(context.Background(), cfg, ArenaRepos{}); err != nil {
				t.Fatalf("RunGame(%s): %v", diff, err)
			}
		})
	}
}

func TestRunGamePersists(t *testing.T) {
	repos := ArenaRepos{
		Games:   newMockGameRepo(),
		Users:   newMockUserRepo(),
		Turns:   &mockTurnRepo{},
		Battles: &mockBattleRepo{},
	}
	cfg := ArenaConfig{GameName: "persisted", MaxTurns: 4, Seed: 5}

	result, err := RunGame(context.Background(), cfg, repos)
	if err != nil {
		t.Fatalf("RunGame failed: %v", err)
	}
	game, _ := repos.Games.FindByID(context.Background(), result.GameID)
	if game == nil {
		t.Fatal("Expected a game row")
	}
	if game.Status != model.GameFinished || game.Result != result.Outcome {
		t.Errorf("Game row not finished: %+v", game)
	}
	if game.Seed != 5 || game.Name != "persisted" {
		t.Errorf("Unexpected game row %+v", game)
	}
	turns := repos.Turns.(*mockTurnRepo).turns
	if len(turns) != result.Turns {
		t.Errorf("Saved %d turns, played %d", len(turns), result.Turns)
	}
	if len(repos.Battles.(*mockBattleRepo).battles) != result.Battles {
		t.Errorf("Saved %d battles, fought %d", len(repos.Battles.(*mockBattleRepo).battles), result.Battles)
	}
	if game.Turn != turns[len(turns)-1].Turn {
		t.Errorf("Game turn %d, last archived turn %d", game.Turn, turns[len(turns)-1].Turn)
	}
}

func TestRunGameContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	cfg := ArenaConfig{GameName: "test-cancel", Seed: 1, DryRun: true}
	_, err := RunGame(ctx, cfg, ArenaRepos{})
	if err == nil {
		t.Error("Expected error from cancelled context")
	}
}
