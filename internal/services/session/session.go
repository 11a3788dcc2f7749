// Package session issues and resolves the opaque tokens that bind a client
// to an account.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/battingstats/internal/model"
)

// ErrInvalidSession is returned for unknown, expired, revoked or malformed tokens
var ErrInvalidSession = errors.New("invalid or expired session")

// DefaultTTL is how long a session stays valid after login
const DefaultTTL = 24 * time.Hour

// tokenPrefix marks opaque session tokens issued by the memory and redis stores
const tokenPrefix = "sess_"

// Identity is who a session acts for
type Identity struct {
	AccountID model.AccountID `json:"account_id"`
	Username  string          `json:"username"`
}

// Session represents an authenticated session
type Session struct {
	Token     string    `json:"-"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store issues, resolves and revokes sessions
type Store interface {
	Create(ctx context.Context, identity Identity) (*Session, error)
	// Lookup returns ErrInvalidSession for any token that does not resolve
	Lookup(ctx context.Context, token string) (*Session, error)
	// Delete revokes the token; unknown tokens are not an error
	Delete(ctx context.Context, token string) error
}
