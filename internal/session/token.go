package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry pulls the exp claim out of a bearer token without verifying
// the signature. The backend is the authority; this is display only.
// Returns the zero time for opaque or claimless tokens.
func tokenExpiry(tok string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
