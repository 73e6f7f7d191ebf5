// Package auth — client secret hashing.
//
// The worker never stores the client secret itself, only its bcrypt hash
// (CLIENT_SECRET_HASH in the environment). bcrypt is deliberately slow and
// salts automatically, so a leaked hash is expensive to brute-force and two
// deployments with the same secret still get different hashes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly 250ms on a
// modern server — negligible for the once-per-TTL token grant, brutal for an
// attacker grinding through candidate secrets.
const defaultCost = 12

// SecretService provides bcrypt hashing and verification for client secrets.
//
// A struct rather than free functions so the cost can be injected: tests use
// the minimum cost and run in milliseconds.
type SecretService struct {
	cost int
}

// NewSecretService creates a SecretService with the default cost (12).
func NewSecretService() *SecretService {
	return &SecretService{cost: defaultCost}
}

// NewSecretServiceWithCost creates a SecretService with a custom cost.
// bcrypt.MinCost (4) is appropriate for tests; never for production.
func NewSecretServiceWithCost(cost int) *SecretService {
	return &SecretService{cost: cost}
}

// Hash hashes a plaintext secret. The output embeds salt and cost, so it is
// the only thing that needs storing.
//
// Secrets over 72 bytes are rejected: bcrypt silently truncates there, and a
// silent truncation of a credential is worse than an error.
func (s *SecretService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: secret must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing secret: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext secret against a stored hash. Returns nil on
// match. The comparison is constant-time inside bcrypt.
func (s *SecretService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid client secret")
		}
		return fmt.Errorf("auth: comparing secret hash: %w", err)
	}
	return nil
}
