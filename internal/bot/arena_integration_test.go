//go:build integration

package bot

import (
	"context"
	"testing"

	"github.com/freeeve/sengoku/api/internal/repository/postgres"
	"github.com/freeeve/sengoku/api/internal/testutil"
)

// TestArenaGamesDB plays a handful of seeded games and stores them for review.
// Run with: go test -tags integration -run TestArenaGamesDB -v -count=1
func TestArenaGamesDB(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CleanupDB(t, db)
	repos := ArenaRepos{
		Games:   postgres.NewGameRepo(db),
		Users:   postgres.NewUserRepo(db),
		Turns:   postgres.NewTurnRepo(db),
		Battles: postgres.NewBattleRepo(db),
	}
	ctx := context.Background()

	for seed := uint64(1); seed <= 3; seed++ {
		result, err := RunGame(ctx, ArenaConfig{GameName: "arena-db", MaxTurns: 16, Seed: seed}, repos)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		turns, err := repos.Turns.ListTurns(ctx, result.GameID)
		if err != nil {
			t.Fatalf("list turns: %v", err)
		}
		if len(turns) != result.Turns {
			t.Errorf("seed %d: stored %d turns, played %d", seed, len(turns), result.Turns)
		}
		battles, err := repos.Battles.ListBattles(ctx, result.GameID)
		if err != nil {
			t.Fatalf("list battles: %v", err)
		}
		if len(battles) != result.Battles {
			t.Errorf("seed %d: stored %d battles, fought %d", seed, len(battles), result.Battles)
		}
		game, err := repos.Games.FindByID(ctx, result.GameID)
		if err != nil || game == nil {
			t.Fatalf("find game: %v", err)
		}
		if game.Result != result.Outcome {
			t.Errorf("seed %d: stored result %q, want %q", seed, game.Result, result.Outcome)
		}
	}
}
