package response

import (
	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/services/session"
)

// LoginResponse is the response for POST /login. A rejected login is still
// a 200 with Success false.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// LogoutResponse is the response for POST /logout
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// User is the response for GET /user
type User struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

// UserFromIdentity converts a session identity
func UserFromIdentity(id *session.Identity) User {
	return User{
		Username: id.Username,
		UserID:   string(id.AccountID),
	}
}

// Health is the response for GET /health
type Health struct {
	Status string `json:"status"`
}

// Listing returns records as a JSON-ready slice, never nil
func Listing(records []*model.PlayerRecord) []*model.PlayerRecord {
	if records == nil {
		return []*model.PlayerRecord{}
	}
	return records
}
