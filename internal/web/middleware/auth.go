package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/battingstats/internal/services/session"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
)

// sessionCookie matches the cookie set by POST /login
const sessionCookie = "session"

// Authenticator resolves a session token to the identity it acts for
type Authenticator interface {
	CurrentIdentity(ctx context.Context, token string) (*session.Identity, error)
}

// GetIdentity retrieves the signed-in identity from the request context
// Returns nil if nobody is signed in
func GetIdentity(ctx context.Context) *session.Identity {
	identity, _ := ctx.Value(identityContextKey).(*session.Identity)
	return identity
}

// Auth returns middleware that requires a session
// Redirects to the login page with a flash message if there is none
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromSession(r, authn)
			if identity == nil {
				SetFlash(w, "info", "Please log in to continue")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it
// Sets the identity in context if signed in, nil otherwise
func OptionalAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromSession(r, authn)
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromSession(r *http.Request, authn Authenticator) *session.Identity {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	identity, err := authn.CurrentIdentity(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}

	return identity
}
