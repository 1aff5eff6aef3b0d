package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/config"
	"github.com/alfredoleano/Connect4AI/internal/repository/postgres"
	"github.com/alfredoleano/Connect4AI/internal/repository/redis"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
	"github.com/alfredoleano/Connect4AI/internal/service/cleanup"
	"github.com/alfredoleano/Connect4AI/internal/service/game"
	transportHttp "github.com/alfredoleano/Connect4AI/internal/transport/http"
	"github.com/alfredoleano/Connect4AI/internal/transport/websocket"
	"github.com/alfredoleano/Connect4AI/pkg/auth"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.LoadConfig()
	config.SetupLogging(cfg.LogLevel, !cfg.Production)

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	defaultAgent, err := bot.ParseKind(cfg.BotAgent)
	if err != nil || defaultAgent == bot.KindHuman {
		log.Fatal().Str("agent", cfg.BotAgent).Msg("BOT_AGENT must be alphabeta, expectimax or random")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(cfg.DatabaseURL, postgres.PoolOptions{
			MaxOpenConns:       cfg.DBMaxOpenConns,
			MaxIdleConns:       cfg.DBMaxIdleConns,
			ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		defer db.Close()
	} else {
		log.Warn().Msg("DATABASE_URL not set, accounts and history are disabled")
	}

	redisClient := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
	if redisClient != nil {
		defer redisClient.Close()
	}
	sessionStore := redis.NewSessionStore(redisClient, cfg.SessionTTL)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	connManager := websocket.NewConnectionManager()

	managerCfg := game.ManagerConfig{
		Notifier:     connManager,
		DefaultAgent: defaultAgent,
		DefaultDepth: cfg.SearchDepth,
	}
	if sessionStore.Enabled() {
		managerCfg.Cache = sessionStore
	}

	routerCfg := transportHttp.RouterConfig{
		Issuer:         issuer,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	if db != nil {
		gameRepo := postgres.NewGameRepo(db)
		managerCfg.Repo = gameRepo

		authHandler := transportHttp.NewAuthHandler(postgres.NewUserRepo(db), issuer, cfg.TokenTTL)
		authHandler.SecureCookie = cfg.Production
		routerCfg.Auth = authHandler
		routerCfg.History = transportHttp.NewHistoryHandler(gameRepo)
	}

	sessionManager := game.NewSessionManager(managerCfg)
	wsHandler := websocket.NewHandler(connManager, sessionManager, issuer, cfg.AllowedOrigins)
	routerCfg.WebSocket = wsHandler.Serve
	routerCfg.Health = func() gin.H {
		return gin.H{
			"sessions":    sessionManager.ActiveCount(),
			"connections": connManager.Count(),
			"database":    db != nil,
			"redis":       sessionStore.Enabled(),
		}
	}

	cleanupDone := cleanup.NewWorker(sessionManager, cfg.SessionTTL).Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           transportHttp.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("agent", string(defaultAgent)).Int("depth", cfg.SearchDepth).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	<-cleanupDone

	log.Info().Msg("server exited gracefully")
}
