package token

import (
	"errors"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the fixed token lifetime from issuance.
const DefaultTTL = 24 * time.Hour

// ErrNoSecret is returned when the signing secret is unconfigured. Both
// issuing and parsing fail closed rather than fall back to a default.
var ErrNoSecret = errors.New("token: signing secret not configured")

// ErrInvalidToken covers bad signatures, malformed structure and expiry.
var ErrInvalidToken = errors.New("token: invalid token")

// Claims defines the JWT payload.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwtlib.RegisteredClaims
}

// Issue signs a token carrying the subject's identifier with the given ttl.
// The ttl is used as-is; callers wanting the default lifetime pass
// DefaultTTL. A non-positive ttl produces an already-expired token.
func Issue(userID int64, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "blogartigo",
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse validates signature and expiry, returning the subject identifier.
func Parse(tokenStr, secret string) (int64, error) {
	if secret == "" {
		return 0, ErrNoSecret
	}
	parsed, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}))
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
