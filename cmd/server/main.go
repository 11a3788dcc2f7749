package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mcoot/battingstats/internal/api"
	"github.com/mcoot/battingstats/internal/config"
	"github.com/mcoot/battingstats/internal/factory"
	"github.com/mcoot/battingstats/internal/web"
)

// sessionCleanupInterval is how often expired in-memory sessions are dropped
const sessionCleanupInterval = 10 * time.Minute

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	factoryCfg, err := factory.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.StorageType == config.StorageSQLite {
		zapLogger, err := newZapLogger(cfg)
		if err != nil {
			logger.Error("failed to create gorm logger", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = zapLogger.Sync() }()
		factoryCfg.ZapLogger = zapLogger
	}

	// Create application factory
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close backends", slog.String("error", err.Error()))
		}
	}()

	if sessions := app.MemorySessions(); sessions != nil {
		go sessions.RunCleanup(ctx, sessionCleanupInterval, logger)
	}

	// JSON API and pages share one router
	router := mux.NewRouter()
	api.RegisterRoutes(router, api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		PlayerService: app.PlayerService,
		Metrics:       app.Metrics,
		CookieSecure:  cfg.CookieSecure,
	})
	web.RegisterRoutes(router, web.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		PlayerService: app.PlayerService,
		Metrics:       app.Metrics,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Addr
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("sessions", cfg.SessionBackend),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	// Validated by config.Load
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// newZapLogger builds the logger gorm writes through, at the same level as slog
func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.LogFormat == "text" {
		zapCfg.Encoding = "console"
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
