package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/data"
	"github.com/freeeve/sengoku/api/internal/bot"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

func main() {
	url := flag.String("url", "http://localhost:8009", "server base URL")
	name := flag.String("name", "Bot", "display name for the dev login")
	strategyName := flag.String("strategy", bot.DifficultyNormal, "autopilot strategy for the player's lord (normal, aggressive, passive)")
	difficulty := flag.String("difficulty", "", "strategy for the computer lords (server default when empty)")
	seed := flag.Uint64("seed", 0, "game seed (0 = random)")
	maxTurns := flag.Int("max-turns", 0, "stop after this many turns (0 = server turn limit)")
	eventWait := flag.Duration("event-wait", 10*time.Second, "how long to wait for the game_ended push")
	dataDir := flag.String("data", "", "scenario directory (embedded scenario when empty)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if !bot.ValidDifficulty(*strategyName) {
		log.Fatal().Str("strategy", *strategyName).Msg("Unknown strategy")
	}
	if *difficulty != "" && !bot.ValidDifficulty(*difficulty) {
		log.Fatal().Str("difficulty", *difficulty).Msg("Unknown difficulty")
	}

	_, catalog, err := sengoku.LoadScenario(data.Dir(*dataDir))
	if err != nil {
		log.Fatal().Err(err).Msg("Scenario load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	orch := bot.NewOrchestrator(bot.OrchestratorConfig{
		BaseURL:   *url,
		BotName:   *name,
		GameName:  "bot: " + *strategyName,
		Seed:      *seed,
		Strategy:  bot.StrategyForDifficulty(*strategyName),
		Catalog:   catalog,
		MaxTurns:  *maxTurns,
		EventWait: *eventWait,
	})
	game, err := orch.Run(ctx, *difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("Bot orchestrator failed")
	}
	log.Info().Str("gameId", game.ID).Str("status", game.Status).Int("turn", game.Turn).
		Str("result", game.Result).Str("winner", game.Winner).Msg("Bot game completed")
}
