// Package token issues and verifies the HS256 bearer tokens of the API.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// leeway tolerates clock skew between replicas.
const leeway = 5 * time.Second

var (
	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("token secret is not configured")
	// ErrInvalidTTL is returned for a ttl of zero or less.
	ErrInvalidTTL = errors.New("token ttl must be greater than zero")
	// ErrSubjectRequired is returned when issuing a token without username.
	ErrSubjectRequired = errors.New("token subject is required")
)

// Claims of an access token. The subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens with one shared secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

// New returns an Issuer.
func New(secret []byte, issuer string, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	return &Issuer{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(leeway),
		),
	}, nil
}

// TTL is the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the username.
func (i *Issuer) Issue(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrSubjectRequired
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, algorithm, issuer and lifetime and returns the claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims

	parsed, err := i.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
