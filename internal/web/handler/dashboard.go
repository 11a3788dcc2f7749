package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/services/players"
	"github.com/mcoot/battingstats/internal/web/middleware"
	"github.com/mcoot/battingstats/internal/web/templates/layout"
	"github.com/mcoot/battingstats/internal/web/templates/pages"
)

// DashboardHandler renders the signed-in user's player records
type DashboardHandler struct {
	players *players.Service
	logger  *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(players *players.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		players: players,
		logger:  logger,
	}
}

// Dashboard renders the dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	records, err := h.players.List(r.Context(), identity.AccountID)
	if err != nil {
		h.logger.Error("failed to load dashboard",
			slog.String("account_id", string(identity.AccountID)),
			slog.Any("error", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.DashboardData{
		PageData: layout.PageData{
			Title:    "Dashboard",
			Username: identity.Username,
			Flash:    middleware.GetFlash(r.Context()),
		},
		Records:   records,
		Positions: model.Positions(),
	}

	render(w, r, pages.Dashboard(data))
}

func render(w http.ResponseWriter, r *http.Request, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
