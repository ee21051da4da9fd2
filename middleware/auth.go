package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/library-graphql/models"
	"github.com/kevinaaaquil/library-graphql/service"
)

type contextKey string

const CurrentUserKey contextKey = "currentUser"

const bearerPrefix = "bearer "

// TokenVerifier decodes a signed token into its claims.
type TokenVerifier interface {
	Verify(raw string) (*service.Claims, error)
}

// UserLookup finds a user by id, returning nil when none exists.
type UserLookup interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthContext is the per-request authentication state. A nil User means the
// request is anonymous.
type AuthContext struct {
	User *models.User
}

// ResolveAuth maps an Authorization header value to an AuthContext:
//   - empty header or a scheme other than Bearer: anonymous, no error
//   - token failing verification: service.ErrInvalidToken
//   - valid token for a user that no longer exists: anonymous
//   - valid token for an existing user: that user
//
// Errors other than ErrInvalidToken come from the user lookup.
func ResolveAuth(ctx context.Context, header string, verifier TokenVerifier, users UserLookup) (AuthContext, error) {
	header = strings.TrimSpace(header)
	if header == "" || len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return AuthContext{}, nil
	}
	claims, err := verifier.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
	if err != nil {
		return AuthContext{}, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return AuthContext{}, errors.Wrap(service.ErrInvalidToken, "user id")
	}
	user, err := users.UserByID(ctx, id)
	if err != nil {
		return AuthContext{}, errors.Wrap(err, "load current user")
	}
	return AuthContext{User: user}, nil
}

// Auth attaches the caller's AuthContext to every request. Anonymous
// requests pass through; a bearer token that fails verification is rejected
// with 401 before any resolver runs.
func Auth(verifier TokenVerifier, users UserLookup, logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, err := ResolveAuth(r.Context(), r.Header.Get("Authorization"), verifier, users)
			if errors.Is(err, service.ErrInvalidToken) {
				logger.Debug().Err(err).Msg("rejecting request with invalid token")
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if err != nil {
				logger.Error().Err(err).Msg("auth lookup failed")
				writeJSONError(w, http.StatusInternalServerError, "authentication failed")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
		})
	}
}

func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, CurrentUserKey, ac)
}

// AuthContextFrom returns the AuthContext attached by Auth, or an anonymous one.
func AuthContextFrom(ctx context.Context) AuthContext {
	ac, _ := ctx.Value(CurrentUserKey).(AuthContext)
	return ac
}

// CurrentUserFromContext returns the authenticated user, if any.
func CurrentUserFromContext(ctx context.Context) (*models.User, bool) {
	ac := AuthContextFrom(ctx)
	if ac.User == nil {
		return nil, false
	}
	return ac.User, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
