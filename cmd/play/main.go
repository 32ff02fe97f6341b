package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/data"
	"github.com/freeeve/sengoku/api/internal/bot"
	"github.com/freeeve/sengoku/api/internal/logger"
	"github.com/freeeve/sengoku/api/internal/save"
	"github.com/freeeve/sengoku/api/internal/tui"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

func main() {
	seed := flag.Uint64("seed", 0, "game seed (0 = random)")
	difficulty := flag.String("difficulty", bot.DifficultyNormal, "strategy for the computer lords (normal, aggressive, passive)")
	dataDir := flag.String("data", "", "scenario directory (embedded scenario when empty)")
	load := flag.String("load", "", "resume from a save file")
	delay := flag.Float64("delay", 1, "multiplier for pauses between computer lords (0 = none)")
	turnLimit := flag.Int("turn-limit", sengoku.VictoryTurnLimit, "turns before the game ends in a draw")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	logger.InitFileOnly(logger.FileOptions{Path: *logFile, MaxSizeMB: 10, MaxBackups: 1})

	if err := run(*seed, *difficulty, *dataDir, *load, tui.Options{DelayScale: *delay, TurnLimit: *turnLimit}); err != nil {
		fmt.Fprintln(os.Stderr, "sengoku:", err)
		os.Exit(1)
	}
}

func run(seed uint64, difficulty, dataDir, load string, opts tui.Options) error {
	if opts.DelayScale < 0 || opts.TurnLimit < 0 {
		return fmt.Errorf("delay and turn limit must not be negative")
	}
	gs, catalog, err := sengoku.LoadScenario(data.Dir(dataDir))
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	var sess *sengoku.Session
	if load != "" {
		f, err := save.LoadFile(load)
		if err != nil {
			return err
		}
		if !bot.ValidDifficulty(f.Difficulty) {
			f.Difficulty = bot.DifficultyNormal
		}
		sess, err = f.Restore(catalog, bot.StrategyForDifficulty(f.Difficulty))
		if err != nil {
			return err
		}
		difficulty = f.Difficulty
		log.Info().Str("file", load).Int("turn", sess.State.Turn).Msg("Save loaded")
	} else {
		if !bot.ValidDifficulty(difficulty) {
			return fmt.Errorf("unknown difficulty %q", difficulty)
		}
		if seed == 0 {
			seed = bot.NextSeed()
		}
		sess = sengoku.NewSession(gs, catalog, bot.StrategyForDifficulty(difficulty), seed)
		log.Info().Uint64("seed", seed).Str("difficulty", difficulty).Msg("New game")
	}

	opts.Difficulty = difficulty
	return tui.Run(sess, opts)
}
