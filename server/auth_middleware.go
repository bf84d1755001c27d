package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/chatkeep/chatkeep-server/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyClaims stores the verified token claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireAuth validates a Bearer access token and threads the verified claims
// through the request context. Handlers read the subject from the context
// value, never from anything client-controlled.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "authentication failed")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "authentication failed")
				return
			}

			claims, err := s.issuer.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication failed")
				return
			}
			// Refresh tokens are subject-only; the username claim is what
			// marks an access token. A refresh token is not a bearer credential.
			if claims.Username == "" {
				writeError(w, http.StatusUnauthorized, "authentication failed")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyUserID).(string)
	return id
}

func claimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims
}
