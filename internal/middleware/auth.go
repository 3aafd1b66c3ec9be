package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/http/respond"
)

var errMissingToken = apperr.New(apperr.CodeUnauthenticated, "missing bearer token")

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	Session(ctx context.Context, token string) (auth.Session, error)
}

// AdminChecker decides whether a user may reach admin routes.
type AdminChecker interface {
	RequireAdmin(ctx context.Context, userID uuid.UUID) error
}

// Authenticate resolves the Authorization header and stores the session in
// the request context. Requests without a valid session get a 401.
func Authenticate(sessions SessionResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respond.Err(w, r, errMissingToken)
			return
		}
		session, err := sessions.Session(r.Context(), token)
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// RequireAdmin must run inside Authenticate.
func RequireAdmin(admins AdminChecker, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFrom(r.Context())
		if !ok {
			respond.Err(w, r, errMissingToken)
			return
		}
		if err := admins.RequireAdmin(r.Context(), session.UserID); err != nil {
			respond.Err(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
