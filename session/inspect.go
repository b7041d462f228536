package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// tokenExpired inspects the unverified exp claim of a JWT. Signature
// verification is the gateway's job; the client only decides whether a cached
// token is worth presenting. Any parse failure or missing claim counts as
// expired.
func tokenExpired(rawToken string, now time.Time) bool {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return true
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.After(exp.Time)
}
