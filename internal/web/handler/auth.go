package handler

import (
	"net/http"

	"github.com/mcoot/battingstats/internal/web/middleware"
	"github.com/mcoot/battingstats/internal/web/templates/layout"
	"github.com/mcoot/battingstats/internal/web/templates/pages"
)

// AuthHandler handles the login page. The form itself posts to the JSON API.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetIdentity(r.Context()) != nil {
		// Already logged in
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := pages.LoginData{
		PageData: layout.PageData{
			Title: "Login",
			Flash: middleware.GetFlash(r.Context()),
		},
	}

	render(w, r, pages.Login(data))
}
