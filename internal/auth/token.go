package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential covers bad signatures, malformed tokens and expiry.
var ErrInvalidCredential = errors.New("invalid or expired credential")

// TokenCodec issues and verifies the signed, time-limited credentials that
// bind a request to a user id. Secret and lifetime are passed in explicitly.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user id and an expiry.
func (c *TokenCodec) Issue(userID uint) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	})
	return token.SignedString(c.secret)
}

// Verify parses and validates a token and returns the user id it encodes.
func (c *TokenCodec) Verify(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredential
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredential
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidCredential
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, ErrInvalidCredential
	}
	return uint(id), nil
}
