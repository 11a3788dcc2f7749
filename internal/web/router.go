package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battingstats/internal/metrics"
	shared "github.com/mcoot/battingstats/internal/middleware"
	"github.com/mcoot/battingstats/internal/services/auth"
	"github.com/mcoot/battingstats/internal/services/players"
	"github.com/mcoot/battingstats/internal/web/handler"
	"github.com/mcoot/battingstats/internal/web/middleware"
	"github.com/mcoot/battingstats/internal/web/static"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	PlayerService *players.Service
	Metrics       *metrics.Manager
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, cfg)
	return r
}

// RegisterRoutes adds the page routes and static assets to r
func RegisterRoutes(r *mux.Router, cfg RouterConfig) {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewManager(metrics.WithMetricsEnabled(false))
	}

	// Create middleware
	loggingMiddleware := shared.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	metricsMiddleware := shared.Metrics(cfg.Metrics)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Create handlers
	authHandler := handler.NewAuthHandler()
	dashboardHandler := handler.NewDashboardHandler(cfg.PlayerService, cfg.Logger)
	homeHandler := handler.NewHomeHandler(authHandler, dashboardHandler)

	pages := r.NewRoute().Subrouter()
	pages.Use(recoveryMiddleware)
	pages.Use(loggingMiddleware)
	pages.Use(metricsMiddleware)

	// Static files
	pages.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static.FS)))).
		Methods(http.MethodGet, http.MethodHead)

	// Public pages (optional auth decides what to show)
	public := pages.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)

	// Protected pages (require auth)
	protected := pages.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("/dashboard", dashboardHandler.Dashboard).Methods(http.MethodGet)
}
