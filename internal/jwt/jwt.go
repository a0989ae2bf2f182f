package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single outcome for every token failure: bad
// signature, wrong algorithm, malformed payload, expiry, missing subject.
// Callers must not be able to tell these apart.
var ErrInvalidToken = errors.New("invalid token")

// defaultTTL applies when a Service is constructed with a zero expiration.
const defaultTTL = 15 * time.Minute

// Service issues and verifies HS256 bearer tokens.
type Service struct {
	secretKey string
	ttl       time.Duration
}

// New creates a new token Service. A non-positive ttl falls back to 15 minutes.
func New(secretKey string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{secretKey: secretKey, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token whose subject is the given username.
func (s *Service) Issue(ctx context.Context, subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// Subject verifies signature and expiry in one step and returns the subject
// claim. Any failure collapses to ErrInvalidToken.
func (s *Service) Subject(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// FromRequest extracts the bearer token from the Authorization header.
func (s *Service) FromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
