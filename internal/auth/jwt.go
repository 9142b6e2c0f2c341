package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry returns the "exp" claim of a JWT. The signature is not verified;
// the server does that. ok is false for tokens that are not JWTs or carry
// no usable expiry.
func Expiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(strings.TrimPrefix(token, "Bearer "), claims)
	// An unknown alg only fails the signing-method lookup; claims are decoded.
	if err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return time.Time{}, false
	}
	date, err := claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

// Expired reports whether token is a JWT whose expiry is at or before now.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !now.Before(exp)
}
