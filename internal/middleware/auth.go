package middleware

import (
	"context"
	"net/http"

	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/utils"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "session"

// Key to store the authenticated user in the request context
type key int

const userKey key = 0

type Authenticator interface {
	Authenticate(token domain.SessionToken) (domain.User, error)
}

type Auth struct {
	auth Authenticator
}

func NewAuth(auth Authenticator) *Auth {
	return &Auth{auth: auth}
}

// NeedAuth rejects requests without a valid session.
func (a *Auth) NeedAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Error(w, "Please sign-in", http.StatusUnauthorized)
			return
		}

		user, err := a.auth.Authenticate(cookie.Value)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the user when a valid session cookie is present and
// lets the request through anonymously otherwise.
func (a *Auth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err == nil {
			if user, err := a.auth.Authenticate(cookie.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userKey, &user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a context carrying the user, the same way the auth
// middleware stores it.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the authenticated user, or nil.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
