// Package auth implements the session token codec: issuing, decoding, and
// validating HMAC-signed JWTs that carry the caller's identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhontaff/JWT-Authentication/internal/common"
)

// Codec signs and verifies session tokens with a process-wide symmetric key.
// The key is read-only after construction, so a single Codec is safe for
// concurrent use by every request.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec creates a Codec. The key must already be validated by the
// composition root (see config.SigningKey); an undersized secret is a
// startup error, not a runtime one.
func NewCodec(key []byte, ttl time.Duration) *Codec {
	return &Codec{key: key, ttl: ttl}
}

// Issue builds a signed token whose payload contains the subject, the
// issue time, the expiry (now + ttl), and the merged extra claims.
// Registered claim names in extra are overridden by the values set here.
func (c *Codec) Issue(subject string, extra map[string]any) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(c.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(c.key)
}

// Decode verifies the token's signature and structure and returns the full
// claim set. Failures map to exactly one of the sentinel kinds in common:
// ErrTokenExpired, ErrTokenUnsupported, ErrInvalidArgument, or
// ErrTokenMalformed for everything else.
func (c *Codec) Decode(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, common.ErrInvalidArgument
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc); err != nil {
		return nil, mapTokenError(err)
	}

	if len(claims) == 0 {
		return nil, common.ErrInvalidArgument
	}

	return claims, nil
}

// Subject is a convenience projection of the "sub" claim.
func (c *Codec) Subject(tokenString string) (string, error) {
	claims, err := c.Decode(tokenString)
	if err != nil {
		return "", err
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", common.ErrTokenMalformed
	}

	return subject, nil
}

// Validate reports whether the token is valid. It never returns (false, nil):
// every failure carries its typed error so callers can distinguish the kinds.
func (c *Codec) Validate(tokenString string) (bool, error) {
	if _, err := c.Decode(tokenString); err != nil {
		return false, err
	}
	return true, nil
}

// keyFunc rejects any signing method outside the HMAC-SHA family before
// handing back the shared key.
func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, common.ErrTokenUnsupported
	}
	return c.key, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, common.ErrTokenUnsupported):
		return common.ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		// Unparseable tokens and all remaining signature failures.
		return common.ErrTokenMalformed
	}
}
