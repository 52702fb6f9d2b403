package middleware

import (
	"context"
	"net/http"
	"strings"

	"notes_manager/internal/common"
	"notes_manager/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const ClaimsCtxKey contextKey = "tokenClaims"

// Authenticator rejects requests whose token is absent, malformed, expired,
// missing a subject, or revoked. On success the parsed claims are attached to
// the request context.
func Authenticator(revocations security.RevocationStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

			if err != nil {
				if strings.Contains(err.Error(), "token not found") || token == nil {
					common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				} else {
					common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
				}
				return
			}

			if token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			tokenClaims, err := security.ParseClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}

			if tokenClaims.TokenID != "" {
				revoked, err := revocations.IsRevoked(r.Context(), tokenClaims.TokenID)
				if err != nil {
					common.RespondWithError(w, http.StatusInternalServerError, "Failed to verify token state")
					return
				}
				if revoked {
					common.RespondWithError(w, http.StatusUnauthorized, "Token has been revoked")
					return
				}
			}

			ctx := context.WithValue(r.Context(), ClaimsCtxKey, tokenClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get the parsed token claims from context
func GetClaimsFromContext(ctx context.Context) (*security.TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(*security.TokenClaims)
	return claims, ok
}

// Helper to get the caller's user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := GetClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}
