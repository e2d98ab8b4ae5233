package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dkeye/focusopolis/internal/adapters/auth"
	"github.com/dkeye/focusopolis/internal/adapters/cache"
	router "github.com/dkeye/focusopolis/internal/adapters/http"
	"github.com/dkeye/focusopolis/internal/adapters/ledger"
	"github.com/dkeye/focusopolis/internal/adapters/store"
	"github.com/dkeye/focusopolis/internal/adapters/ws"
	"github.com/dkeye/focusopolis/internal/app"
	"github.com/dkeye/focusopolis/internal/config"
	"github.com/dkeye/focusopolis/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Secret == "" {
		log.Fatal().Msg("secret is required")
	}

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	db := client.Database(cfg.MongoDB)

	rooms := store.NewMongoStore(db)
	sessions := ledger.NewMongoLedger(db)

	var progress core.ProgressCache
	if cfg.RedisAddr != "" {
		progress = cache.NewProgressCache(cfg.RedisAddr)
	}

	bcast := app.NewBroadcaster(app.SimplePolicy{})
	membership := app.NewMembership(rooms)
	goals := app.NewGoals(rooms, sessions, progress)
	board := app.NewLeaderboard(rooms, sessions)
	chat := app.NewChat(rooms, bcast)
	limiter := app.NewSendRateLimiter(cfg.ChatRateLimit, cfg.ChatRateInterval)

	verifier := auth.NewVerifier(cfg.Secret)
	wsCtl := ws.NewController(membership, chat, bcast, limiter, cfg.ReadLimit, cfg.PingPeriod)

	h := &router.Handler{
		Rooms:  membership,
		Goals:  goals,
		Board:  board,
		Chat:   chat,
		Bcast:  bcast,
		Ledger: sessions,
	}

	r := router.SetupRouter(ctx, cfg, h, wsCtl, verifier)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Focusopolis rooms server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	log.Info().Msg("Server exited gracefully")
}
