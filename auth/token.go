package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go.hackfix.me/tracks/db/models"
)

// Claims are the JWT claims issued for a user. The subject is the user ID.
type Claims struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs and verifies HS256 tokens with a shared secret.
type JWTIssuer struct {
	secret   []byte
	lifetime time.Duration
	timeNow  func() time.Time
}

var _ TokenIssuer = (*JWTIssuer)(nil)

// NewJWTIssuer returns a token issuer using secret. If lifetime is 0, tokens
// never expire.
func NewJWTIssuer(secret []byte, lifetime time.Duration, timeNow func() time.Time) (*JWTIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("JWT secret must not be empty")
	}
	if lifetime < 0 {
		return nil, fmt.Errorf("token lifetime must not be negative, got %s", lifetime)
	}
	if timeNow == nil {
		timeNow = time.Now
	}

	return &JWTIssuer{secret: secret, lifetime: lifetime, timeNow: timeNow}, nil
}

// Sign returns a signed token for user. The password hash is never part of the
// claims.
func (j *JWTIssuer) Sign(user *models.User) (string, error) {
	now := j.timeNow()
	claims := &Claims{
		Username: user.Username,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.lifetime > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.lifetime))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed signing token: %w", err)
	}

	return token, nil
}

// Verify parses token and checks its signature and expiration.
func (j *JWTIssuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.timeNow),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || claims.Username == "" {
		return nil, errors.New("invalid token: missing subject")
	}

	return claims, nil
}
