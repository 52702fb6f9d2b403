package security

import (
	"errors"
	"time"

	"notes_manager/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// TokenClaims is the fixed claim set carried by a session token. Tokens are
// decoded into this struct and validated by shape, never by ad-hoc map lookups.
type TokenClaims struct {
	Subject   string
	Email     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// GenerateToken issues a signed session token for the given user. Each token
// carries a fresh random token ID and expires after the configured lifetime.
func GenerateToken(userID, email string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(config.AppConfig.JWTExp).Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// ParseClaims validates a decoded claim map against the expected token shape.
// The subject claim is mandatory; a token without one is unusable.
func ParseClaims(claims map[string]interface{}) (*TokenClaims, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("sub claim is missing or not a string")
	}

	tc := &TokenClaims{Subject: sub}

	if email, ok := claims["email"].(string); ok {
		tc.Email = email
	}
	if jti, ok := claims["jti"].(string); ok {
		tc.TokenID = jti
	}
	tc.IssuedAt = claimTime(claims["iat"])
	tc.ExpiresAt = claimTime(claims["exp"])

	return tc, nil
}

// claimTime tolerates both decoded time.Time values and raw numeric dates.
func claimTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case float64:
		return time.Unix(int64(t), 0)
	case int64:
		return time.Unix(t, 0)
	}
	return time.Time{}
}
