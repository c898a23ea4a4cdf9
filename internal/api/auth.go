package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier validates a bearer token and resolves the owning user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// StaticTokenVerifier accepts a single pre-shared token. An empty Token
// accepts any bearer token. Every verified request maps to UserID, or
// "local" when unset.
type StaticTokenVerifier struct {
	Token  string
	UserID string
}

// Verify implements TokenVerifier.
func (v StaticTokenVerifier) Verify(_ context.Context, token string) (string, error) {
	if v.Token != "" && token != v.Token {
		return "", errors.New("invalid token")
	}
	userID := v.UserID
	if userID == "" {
		userID = "local"
	}
	return userID, nil
}

// requireAuth extracts the bearer token, verifies it, and stores the user
// id in the request context. Missing or invalid tokens get a 401.
func requireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			userID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func userIDFrom(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
