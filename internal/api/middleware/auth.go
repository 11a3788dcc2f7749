package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/battingstats/internal/api/apierr"
	"github.com/mcoot/battingstats/internal/services/session"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// SessionCookie is the name of the cookie holding the session token
const SessionCookie = "session"

// Authenticator resolves a session token to the identity it acts for
type Authenticator interface {
	CurrentIdentity(ctx context.Context, token string) (*session.Identity, error)
}

// Auth creates authentication middleware that answers 401 JSON when the
// request has no valid session
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := authn.CurrentIdentity(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity, token)))
		})
	}
}

// AuthOrRedirect is like Auth but sends unauthenticated requests to
// location with 303 See Other
func AuthOrRedirect(authn Authenticator, location string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				http.Redirect(w, r, location, http.StatusSeeOther)
				return
			}

			identity, err := authn.CurrentIdentity(r.Context(), token)
			if err != nil {
				if apierr.Status(err) == http.StatusUnauthorized {
					http.Redirect(w, r, location, http.StatusSeeOther)
					return
				}
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity, token)))
		})
	}
}

func withIdentity(ctx context.Context, identity *session.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityContextKey, identity)
	return context.WithValue(ctx, tokenContextKey, token)
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *session.Identity {
	identity, _ := ctx.Value(identityContextKey).(*session.Identity)
	return identity
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) *session.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
