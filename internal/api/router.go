package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battingstats/internal/api/handler"
	"github.com/mcoot/battingstats/internal/api/middleware"
	"github.com/mcoot/battingstats/internal/metrics"
	shared "github.com/mcoot/battingstats/internal/middleware"
	"github.com/mcoot/battingstats/internal/services/auth"
	"github.com/mcoot/battingstats/internal/services/players"
)

// LoginPath is where signed-out page requests are sent
const LoginPath = "/login"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	PlayerService *players.Service
	Metrics       *metrics.Manager
	CookieSecure  bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, cfg)
	return r
}

// RegisterRoutes adds the JSON API routes to r. The routes live on their own
// subrouter so they can share r with the page routes.
func RegisterRoutes(r *mux.Router, cfg RouterConfig) {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewManager(metrics.WithMetricsEnabled(false))
	}

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Metrics, cfg.Logger, handler.CookieConfig{
		Secure: cfg.CookieSecure,
	})
	playersHandler := handler.NewPlayersHandler(cfg.PlayerService, cfg.Metrics, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	redirectMiddleware := middleware.AuthOrRedirect(cfg.AuthService, LoginPath)
	loggingMiddleware := shared.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	metricsMiddleware := shared.Metrics(cfg.Metrics)

	// API subrouter with common middleware
	api := r.NewRoute().Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(metricsMiddleware)

	// Session routes (no auth required)
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Current user; browsers without a session are sent to the login page
	user := api.NewRoute().Subrouter()
	user.Use(redirectMiddleware)
	user.HandleFunc("/user", authHandler.User).Methods(http.MethodGet)

	// Player record routes (all require auth)
	playerRoutes := api.NewRoute().Subrouter()
	playerRoutes.Use(authMiddleware)
	playerRoutes.HandleFunc("/players", playersHandler.List).Methods(http.MethodGet)
	playerRoutes.HandleFunc("/players", playersHandler.Create).Methods(http.MethodPost)
	playerRoutes.HandleFunc("/players/{id}", playersHandler.Update).Methods(http.MethodPut)
	playerRoutes.HandleFunc("/players/{id}", playersHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	if cfg.Metrics.Enabled() {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}
}
