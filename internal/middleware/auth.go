package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/models"
	"github.com/paksmart/storefront/internal/services"
)

// Authenticator resolves bearer tokens into sessions
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// SessionFromContext returns the signed-in session, or nil
func SessionFromContext(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey).(*models.Session)
	return s
}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware attaches the session for a valid bearer token.
// Requests without a usable token continue anonymously.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if errors.Is(err, services.ErrUnauthenticated) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				httpLog.Error().Err(err).Str(logging.REQUEST_ID, RequestIDFromContext(r.Context())).Msg("session lookup failed")
				writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Please sign in", services.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous and non-admin requests
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		if s == nil {
			writeError(w, http.StatusUnauthorized, "Please sign in", services.ErrUnauthenticated.Error())
			return
		}
		if !s.IsAdmin {
			writeError(w, http.StatusForbidden, "Access denied", services.ErrAdminRequired.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
