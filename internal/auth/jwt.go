// Package auth provides token issuance and validation for the worker API.
//
// AUTHENTICATION FLOW:
// 1. A client POSTs its client_id + client_secret to /auth/token
// 2. The server checks the secret against the configured bcrypt hash
// 3. The server issues a short-lived JWT access token
// 4. The client sends "Authorization: Bearer <token>" on every API call
// 5. Middleware validates the token and sets the client ID in the request context
//
// There is no browser, no cookies, no redirect dance — callers of this
// service are other programs, so the plain client-credentials grant is the
// right shape. JWT keeps it stateless: the signature plus expiry is all the
// server needs to check, no session store required.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "script-worker"

// TokenTTL is the access token lifetime. Clients are expected to request a
// fresh token when they get a 401, so a short TTL is cheap.
const TokenTTL = 15 * time.Minute

// TokenService signs and verifies JWT access tokens with an HMAC secret.
// The same secret does both; keep it out of version control.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production:
//
//	JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the "sub" claim carries the client ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs an access token for the given client ID,
// valid for TokenTTL.
func (s *TokenService) Generate(clientID string) (string, error) {
	return s.GenerateWithDuration(clientID, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(clientID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the client ID from
// the "sub" claim.
//
// The library checks signature, expiry and issuer. Restricting the accepted
// algorithms to HS256 closes the algorithm-confusion hole where an attacker
// submits a token claiming alg "none".
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
