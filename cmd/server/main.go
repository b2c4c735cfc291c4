package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kwestra/hexfront/internal/ai"
	"github.com/kwestra/hexfront/internal/auth"
	"github.com/kwestra/hexfront/internal/config"
	"github.com/kwestra/hexfront/internal/handler"
	"github.com/kwestra/hexfront/internal/logger"
	"github.com/kwestra/hexfront/internal/repository/postgres"
	redisrepo "github.com/kwestra/hexfront/internal/repository/redis"
)

func main() {
	logger.Init()
	cfg := config.Load()
	ai.OnnxModelPath = cfg.OnnxModelPath
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

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

	// Repos
	battleRepo := postgres.NewBattleRepo(db)
	learningRepo := postgres.NewLearningRepo(db)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Handlers
	authHandler := handler.NewAuthHandler(jwtMgr)
	battleHandler := handler.NewBattleHandler(battleRepo, learningRepo, redisClient, wsHub)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	// Router
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("POST /auth/spectator", authHandler.SpectatorToken)

	// API routes
	mux.HandleFunc("POST /api/v1/battles", battleHandler.CreateBattle)
	mux.HandleFunc("GET /api/v1/battles", battleHandler.ListBattles)
	mux.HandleFunc("GET /api/v1/battles/{id}", battleHandler.GetBattle)
	mux.HandleFunc("GET /api/v1/battles/{id}/turns", battleHandler.GetBattleTurns)
	mux.HandleFunc("GET /api/v1/battles/{id}/status", battleHandler.GetBattleStatus)
	mux.HandleFunc("GET /api/v1/profiles", battleHandler.ListProfiles)

	// WebSocket
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		close(done)
	}()

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
	<-done
}
