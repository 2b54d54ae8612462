package apiclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenUsable reports whether a stored bearer token is worth attaching to a
// request. JWTs with an expiry in the past are dead weight: the server would
// reject them with a 401 anyway, so the caller can drop them up front.
// Tokens that do not parse as JWTs are treated as opaque and passed through;
// the server is the authority on those.
func tokenUsable(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true // opaque token, let the server decide
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(now)
}
