// Package service provides the admin key credential service. Admin keys gate
// the privileged decrypt and key-rotation endpoints and are stored only as
// Argon2id hashes.
package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/dataproof/internal/errors"
)

// AdminKeyService hashes and verifies admin keys.
type AdminKeyService interface {
	// GenerateKey creates a new random admin key and its hash. The plain key
	// is shown once; only the hash goes into configuration.
	GenerateKey() (plainKey string, hashedKey string, err error)

	// HashKey hashes a plain admin key using Argon2id.
	HashKey(plainKey string) (string, error)

	// VerifyKey performs a constant-time comparison between a plain key and
	// its stored hash.
	VerifyKey(plainKey, hashedKey string) bool
}

// adminKeyService implements AdminKeyService using Argon2id.
type adminKeyService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateKey creates a cryptographically secure 32-byte random key.
func (s *adminKeyService) GenerateKey() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random admin key")
	}

	plainKey := base64.URLEncoding.EncodeToString(randomBytes)

	hashedKey, err := s.HashKey(plainKey)
	if err != nil {
		return "", "", err
	}

	return plainKey, hashedKey, nil
}

// HashKey hashes a plain admin key using Argon2id.
func (s *adminKeyService) HashKey(plainKey string) (string, error) {
	hashedKey, err := s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash admin key")
	}
	return hashedKey, nil
}

// VerifyKey compares a plain key against its stored hash.
func (s *adminKeyService) VerifyKey(plainKey, hashedKey string) bool {
	ok, err := s.hasher.Verify([]byte(plainKey), hashedKey)
	if err != nil {
		return false
	}
	return ok
}

// NewAdminKeyService creates an AdminKeyService with the Moderate Argon2id
// policy, balancing verification latency against attack cost.
func NewAdminKeyService() AdminKeyService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with a valid policy
		panic(err)
	}

	return &adminKeyService{
		hasher: hasher,
	}
}
