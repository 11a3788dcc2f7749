package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/battingstats/internal/api/middleware"
	"github.com/mcoot/battingstats/internal/api/request"
	"github.com/mcoot/battingstats/internal/api/response"
	"github.com/mcoot/battingstats/internal/metrics"
	"github.com/mcoot/battingstats/internal/services/auth"
)

// DashboardPath is where the client goes after a successful login
const DashboardPath = "/dashboard"

// CookieConfig controls the session cookie
type CookieConfig struct {
	Secure bool
}

// AuthHandler handles login, logout and the current user
type AuthHandler struct {
	authService *auth.Service
	metrics     *metrics.Manager
	logger      *slog.Logger
	cookie      CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, metrics *metrics.Manager, logger *slog.Logger, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     metrics,
		logger:      logger,
		cookie:      cookie,
	}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := request.DecodeLogin(w, r)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.RecordLogin(metrics.ResultError)
		writeError(h.logger, w, r, err)
		return
	}
	h.metrics.RecordLogin(result.Outcome.String())

	if result.Session == nil {
		response.JSON(w, http.StatusOK, response.LoginResponse{
			Success: false,
			Message: result.Message(),
		})
		return
	}

	h.setSessionCookie(w, result.Session.Token, result.Session.ExpiresAt)
	response.JSON(w, http.StatusOK, response.LoginResponse{
		Success:  true,
		Message:  result.Message(),
		Redirect: DashboardPath,
	})
}

// Logout handles POST /logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.ExtractToken(r)); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	h.clearSessionCookie(w)
	response.JSON(w, http.StatusOK, response.LogoutResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// User handles GET /user
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromIdentity(identity))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
