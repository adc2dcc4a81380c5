package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"justus/auth"
	"justus/infrastructure/http/server"
	"justus/infrastructure/storage"
	"justus/internal"
	"justus/internal/ratelimit"
	"justus/observability"
	"justus/runtime"
	"justus/runtime/workers"
	"justus/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes give a meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const (
	debugPort     = 8081
	debugEndpoint = "/inspect"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run keeps every defer on the exit path, main only translates the result
// into an exit code.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Stores
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", debugPort, debugEndpoint))
		database.StartDebugServer(db, debugPort, debugEndpoint, storage.InspectMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	userRepository := storage.NewUserRepository(db, logger)
	conversationRepository := storage.NewConversationRepository(db, logger)
	messageRepository := storage.NewMessageRepository(db, logger, config.LimitMessages)
	mediaRepository := storage.NewMediaRepository(db, logger)
	searchIndex := storage.NewSearchIndex(blugeWriter, logger)

	// 3. Runtime
	metrics := observability.NewMetrics()
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(logger, sup, metrics, config.BackfillBufferSize, config.MetricInterval)

	// 4. Services
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	gate := auth.NewGate(logger, issuer, config.CookieName, config.HandshakeTimeout)
	resolver := services.NewConversationResolver(logger, conversationRepository)
	lifecycle := services.NewMessageLifecycle(logger, messageRepository, conversationRepository, userRepository, resolver)
	authService := services.NewAuthService(logger, userRepository, auth.NewPasswordHasher(auth.DefaultArgon2Params), issuer, config.MaxUsers)
	mediaService := services.NewMediaService(logger, mediaRepository, conversationRepository, config.MaxMediaSize)
	chatService := services.NewChatService(logger, lifecycle, resolver, conversationRepository,
		messageRepository, userRepository, searchIndex, orchestrator.Hub(), metrics)

	if config.ModerationEnabled {
		moderator, err := runtime.PrepareModeration(logger, config.CharReplacement)
		if err != nil {
			return exitConfig, err
		}
		chatService.WithModerator(moderator)
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)
	workersCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(workersCtx, chatService); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()
	// The store is closed by a deferred call, so no worker may still be
	// inside a transaction when run returns.
	stopWorkers := func() {
		orchestrator.Stop()
		cancelWorkers()
		select {
		case <-workersDone:
		case <-time.After(config.ShutdownTimeout):
			logger.Warn("Workers did not stop in time")
		}
	}

	// 6. HTTP Server
	limiter := ratelimit.PerMinute(config.SocketRatePerMinute, config.SocketRateBurst, 0)
	srv := server.NewServer(logger, server.Options{
		CookieName:           config.CookieName,
		CookieSecure:         config.CookieSecure,
		AllowedOrigins:       config.AllowedOrigins(),
		ConnectionBufferSize: config.ConnectionBufferSize,
		WriteTimeout:         config.WriteTimeout,
		PingInterval:         config.PingInterval,
		ReadLimit:            config.ReadLimit,
		AllowAnonymousSender: config.AllowAnonymousSender,
	}, gate, authService, chatService, mediaService, orchestrator.Hub(), limiter, metrics,
		storeProbe{users: userRepository, messages: messageRepository})

	httpServer := &http.Server{
		Addr:              config.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		stopWorkers()
		return exitRuntime, err
	}

	// 8. Graceful shutdown. Hijacked sockets are not tracked by Shutdown and
	// end when the process exits.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	stopWorkers()
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG).WithBypassLockGuard(true)
	}
	return options.WithLoggingLevel(badger.INFO)
}

// storeProbe answers the health endpoint from the repositories.
type storeProbe struct {
	users    *storage.UserRepository
	messages *storage.MessageRepository
}

func (p storeProbe) CountUsers() (int, error)    { return p.users.CountUsers() }
func (p storeProbe) CountMessages() (int, error) { return p.messages.CountMessages() }
