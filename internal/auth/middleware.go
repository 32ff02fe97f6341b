package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type ctxKey int

const playerIDKey ctxKey = iota

var (
	errNoCredentials = errors.New("missing authorization header")
	errBadScheme     = errors.New("authorization must be a bearer token")
	errBadToken      = errors.New("invalid or expired token")
)

// bearerToken pulls the token out of "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", errBadScheme
	}
	return token, nil
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="sengoku"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// Middleware admits requests carrying a valid access token and records the
// player's user ID for handlers. Refresh tokens are refused.
func Middleware(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				unauthorized(w, err)
				return
			}
			claims, err := jwtMgr.ValidateAccessToken(token)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected access token")
				unauthorized(w, errBadToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerIDKey, claims.UserID)))
		})
	}
}

// UserIDFromContext returns the user set by Middleware, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(playerIDKey).(string)
	return id
}
