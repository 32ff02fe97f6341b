package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	stdlog "log"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/data"
	"github.com/freeeve/sengoku/api/internal/auth"
	"github.com/freeeve/sengoku/api/internal/config"
	"github.com/freeeve/sengoku/api/internal/handler"
	"github.com/freeeve/sengoku/api/internal/logger"
	"github.com/freeeve/sengoku/api/internal/middleware"
	"github.com/freeeve/sengoku/api/internal/repository/postgres"
	redisrepo "github.com/freeeve/sengoku/api/internal/repository/redis"
	"github.com/freeeve/sengoku/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	logger.Init(logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	log.Info().Str("difficulty", cfg.AIDifficulty).Str("dataDir", cfg.DataDir).
		Int("turnLimit", cfg.TurnLimit).Bool("devMode", cfg.DevMode).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Idle-session expiry is delivered as keyspace notifications.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to set Redis keyspace notifications (idle sessions are swept by polling only)")
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)
	turnRepo := postgres.NewTurnRepo(db)
	battleRepo := postgres.NewBattleRepo(db)

	// Sessions
	store, err := service.NewSessionStore(redisClient, data.Dir(cfg.DataDir), cfg.IdleTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Scenario load failed")
	}

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	gameSvc := service.NewGameService(gameRepo, turnRepo, battleRepo, store, cfg.AIDifficulty)
	turnSvc := service.NewTurnService(gameRepo, turnRepo, battleRepo, store, wsHub)
	turnSvc.DelayScale = cfg.AIDelayScale
	turnSvc.TurnLimit = cfg.TurnLimit

	reaper := service.NewSessionReaper(redisClient.Underlying(), redisClient, store)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, auth.WithExpiry(cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
	googleOAuth := auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	if !googleOAuth.Configured() {
		log.Warn().Msg("Google OAuth not configured; only dev login is available")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(googleOAuth, jwtMgr, userRepo, cfg.DevMode)
	userHandler := handler.NewUserHandler(userRepo)
	gameHandler := handler.NewGameHandler(gameSvc, turnSvc)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr, func(ctx context.Context, gameID, userID string) error {
		_, err := gameSvc.GetGame(ctx, gameID, userID)
		return err
	})

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	// Protected API routes
	api := http.NewServeMux()
	userHandler.Register(api)
	gameHandler.Register(api)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	root := middleware.Chain(mux,
		middleware.Recover,
		middleware.Logger,
		middleware.CORS(cfg.CORSOrigins),
		middleware.JSON,
	)

	// Advance can sleep through AI pauses, so the write timeout leaves room
	// for a full turn.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reaper.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
