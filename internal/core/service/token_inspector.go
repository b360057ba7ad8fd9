package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValid reports whether the access token's expiration instant lies
// strictly in the future. The token is decoded without signature
// verification; the client holds no signing key and only needs the `exp`
// claim. Malformed tokens and missing claims yield false, never a panic.
func TokenValid(token string) bool {
	return tokenValidAt(token, time.Now())
}

func tokenValidAt(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Before(exp.Time)
}
