package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrSubjectRequired = errors.New("token subject is required")
	ErrTokenInvalid    = errors.New("token is invalid")
)

// Claims are the identity assertions carried by a session token. Subject is
// the account's normalized email; the remaining fields are denormalized
// copies for fast-path consumption and are never authoritative; the
// directory row is.
type Claims struct {
	jwt.RegisteredClaims
	AccountID  string `json:"uid,omitempty"`
	Username   string `json:"username,omitempty"`
	Role       string `json:"role,omitempty"`
	AuthMethod string `json:"auth_method,omitempty"`
}

// TokenCodec signs and verifies short-lived session tokens. It is a pure
// cryptographic transform over a process-wide signing secret; it holds no
// state and performs no I/O.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL is the lifetime stamped on issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs the claims with HS256 and the codec TTL. IssuedAt and
// ExpiresAt are always overwritten.
func (c *TokenCodec) Issue(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", ErrSubjectRequired
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Expired, malformed, tampered,
// and subject-less tokens all return an error; callers must treat any failure
// uniformly as "unauthenticated".
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, ErrSubjectRequired)
	}

	return claims, nil
}
