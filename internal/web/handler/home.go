package handler

import (
	"net/http"

	"github.com/mcoot/battingstats/internal/web/middleware"
)

// HomeHandler handles the site root
type HomeHandler struct {
	login     *AuthHandler
	dashboard *DashboardHandler
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(login *AuthHandler, dashboard *DashboardHandler) *HomeHandler {
	return &HomeHandler{
		login:     login,
		dashboard: dashboard,
	}
}

// Home renders the dashboard for a signed-in user and the login page otherwise
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if middleware.GetIdentity(r.Context()) != nil {
		h.dashboard.Dashboard(w, r)
		return
	}
	h.login.LoginPage(w, r)
}
