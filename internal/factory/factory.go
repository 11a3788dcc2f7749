package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mcoot/battingstats/internal/config"
	"github.com/mcoot/battingstats/internal/dependencies/clock"
	"github.com/mcoot/battingstats/internal/dependencies/random"
	"github.com/mcoot/battingstats/internal/metrics"
	"github.com/mcoot/battingstats/internal/services/auth"
	"github.com/mcoot/battingstats/internal/services/players"
	"github.com/mcoot/battingstats/internal/services/session"
	"github.com/mcoot/battingstats/internal/storage"
	"github.com/mcoot/battingstats/internal/storage/memory"
	mongostorage "github.com/mcoot/battingstats/internal/storage/mongo"
	"github.com/mcoot/battingstats/internal/storage/postgres"
	redisstorage "github.com/mcoot/battingstats/internal/storage/redis"
	"github.com/mcoot/battingstats/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageMemory
	StorageTypeRedis    = config.StorageRedis
	StorageTypeSQLite   = config.StorageSQLite
	StorageTypePostgres = config.StoragePostgres
	StorageTypeMongo    = config.StorageMongo
)

// Session backend constants
const (
	SessionBackendMemory = config.SessionMemory
	SessionBackendRedis  = config.SessionRedis
	SessionBackendJWT    = config.SessionJWT
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	// Sessions issues and resolves session tokens
	Sessions session.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService   *auth.Service
	PlayerService *players.Service
	Metrics       *metrics.Manager

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// ZapLogger receives gorm's query logging for the sqlite backend (optional)
	ZapLogger *zap.Logger

	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// Backend settings; each is required only for its StorageType
	RedisConfig    *redisstorage.Config
	SQLiteConfig   *sqlite.Config
	PostgresConfig *postgres.Config
	MongoConfig    *mongostorage.Config

	// SessionBackend selects the session store
	// If empty, defaults to "memory"
	SessionBackend string
	SessionTTL     time.Duration
	JWTSecret      string

	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig *auth.Config
	// PlayersConfig holds configuration for the player service (optional)
	PlayersConfig players.Config

	// Metrics is the metrics manager (optional)
	// If nil, a manager on a fresh registry is created
	Metrics *metrics.Manager
}

// FromConfig translates loaded process configuration into factory settings
func FromConfig(c *config.Config, logger *slog.Logger) (Config, error) {
	policy, err := players.ParseMissingRecordPolicy(c.MissingRecordPolicy)
	if err != nil {
		return Config{}, err
	}

	authCfg := auth.DefaultConfig()
	authCfg.Policy.AutoRegister = c.AutoRegister

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = c.RedisURL
	sqliteCfg := sqlite.Config{Path: c.SQLitePath}
	pgCfg := postgres.DefaultConfig()
	pgCfg.DSN = c.PostgresDSN
	mongoCfg := mongostorage.Config{URI: c.MongoURI, Database: c.MongoDatabase}

	return Config{
		Logger:         logger,
		StorageType:    c.StorageType,
		RedisConfig:    &redisCfg,
		SQLiteConfig:   &sqliteCfg,
		PostgresConfig: &pgCfg,
		MongoConfig:    &mongoCfg,
		SessionBackend: c.SessionBackend,
		SessionTTL:     c.SessionTTL,
		JWTSecret:      c.JWTSecret,
		AuthConfig:     &authCfg,
		PlayersConfig:  players.Config{MissingRecordPolicy: policy},
		Metrics:        metrics.NewManager(metrics.WithMetricsEnabled(c.MetricsEnabled), metrics.WithRuntimeCollectors()),
	}, nil
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	app := &App{}

	store, err := app.newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	sessions, err := app.newSessions(cfg, store, clk, rnd)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	authCfg := auth.DefaultConfig()
	if cfg.AuthConfig != nil {
		authCfg = *cfg.AuthConfig
	}

	app.wire(store, sessions, clk, rnd, authCfg, cfg.PlayersConfig, cfg.Metrics, logger)
	return app, nil
}

func (a *App) newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		s, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		s, err := sqlite.New(*cfg.SQLiteConfig, cfg.ZapLogger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		s, err := postgres.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case StorageTypeMongo:
		if cfg.MongoConfig == nil {
			return nil, errors.New("MongoConfig required when StorageType is mongo")
		}
		s, err := mongostorage.New(ctx, *cfg.MongoConfig)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q", storageType)
	}
}

func (a *App) newSessions(cfg Config, store storage.Storage, clk clock.Clock, rnd random.Random) (session.Store, error) {
	backend := cfg.SessionBackend
	if backend == "" {
		backend = SessionBackendMemory
	}

	switch backend {
	case SessionBackendMemory:
		return session.NewMemoryStore(clk, rnd, cfg.SessionTTL), nil
	case SessionBackendRedis:
		client, prefix, err := a.redisClient(cfg, store)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, clk, rnd, cfg.SessionTTL, prefix), nil
	case SessionBackendJWT:
		return session.NewJWTStore([]byte(cfg.JWTSecret), clk, rnd, cfg.SessionTTL)
	default:
		return nil, fmt.Errorf("invalid SessionBackend %q", backend)
	}
}

// redisClient reuses the storage pool when storage is Redis too
func (a *App) redisClient(cfg Config, store storage.Storage) (*goredis.Client, string, error) {
	if cfg.RedisConfig == nil {
		return nil, "", errors.New("RedisConfig required when SessionBackend is redis")
	}
	if rs, ok := store.(*redisstorage.Storage); ok {
		return rs.Client(), cfg.RedisConfig.KeyPrefix, nil
	}
	client, err := redisstorage.NewClient(*cfg.RedisConfig)
	if err != nil {
		return nil, "", err
	}
	a.closers = append(a.closers, client)
	return client, cfg.RedisConfig.KeyPrefix, nil
}

// wire creates the services over the given dependencies
func (a *App) wire(store storage.Storage, sessions session.Store, clk clock.Clock, rnd random.Random, authCfg auth.Config, playersCfg players.Config, m *metrics.Manager, logger *slog.Logger) {
	if m == nil {
		m = metrics.NewManager()
	}

	a.Storage = store
	a.Sessions = sessions
	a.Clock = clk
	a.Random = rnd
	a.AuthService = auth.New(store, sessions, clk, rnd, logger, authCfg)
	a.PlayerService = players.New(store, clk, rnd, logger, playersCfg)
	a.Metrics = m
}

// MemorySessions returns the in-memory session store, or nil when another
// backend is in use
func (a *App) MemorySessions() *session.MemoryStore {
	ms, _ := a.Sessions.(*session.MemoryStore)
	return ms
}

// Close releases backend connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
