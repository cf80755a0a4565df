package httpapi

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier resolves a bearer token to a user id. Session issuance lives
// in the external auth service; this side only consumes its tokens.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// PassthroughVerifier treats the bearer token as the user id. Suitable for
// development and tests only.
type PassthroughVerifier struct{}

func (PassthroughVerifier) Verify(token string) (string, error) {
	return token, nil
}

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireUser authenticates the bearer token and stashes the user id in the
// request context.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}

		userID, err := s.verifier.Verify(token)
		if err != nil || userID == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// requireAdmin checks the bearer token against the configured bcrypt hash of
// the admin token.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}

		if len(s.adminTokenHash) == 0 ||
			bcrypt.CompareHashAndPassword(s.adminTokenHash, []byte(token)) != nil {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "admin access required"})
			return
		}

		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
