package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
)

// EnvelopeEncryptionService seals JSON payloads into wire envelopes and opens
// them again.
//
// Every Encrypt call uses the key provider's current key and a fresh 96-bit
// nonce generated by the cipher. The plaintext's SHA-256 digest travels inside
// the envelope and is re-checked after decryption: AEAD already authenticates
// the ciphertext, the digest additionally catches a valid decryption of the
// wrong content.
type EnvelopeEncryptionService struct {
	keyProvider KeyProvider
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewEnvelopeService creates an EnvelopeEncryptionService using the given
// algorithm for new envelopes. Decryption honors whatever algorithm an
// envelope names.
func NewEnvelopeService(
	keyProvider KeyProvider,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
) (*EnvelopeEncryptionService, error) {
	if !algorithm.Valid() {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	return &EnvelopeEncryptionService{
		keyProvider: keyProvider,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}, nil
}

// Encrypt marshals payload to JSON and seals it into an envelope.
func (s *EnvelopeEncryptionService) Encrypt(
	ctx context.Context,
	payload any,
) (*cryptoDomain.Envelope, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	key, err := s.keyProvider.CurrentKey(ctx)
	if err != nil {
		return nil, err
	}

	aead, err := s.aeadManager.CreateCipher(key.Plaintext, s.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	digest := sha256.Sum256(plaintext)

	return &cryptoDomain.Envelope{
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:         base64.StdEncoding.EncodeToString(nonce),
		Algorithm:     s.algorithm,
		DataHash:      hex.EncodeToString(digest[:]),
		EncryptionMetadata: cryptoDomain.EncryptionMetadata{
			EncryptedAt: time.Now().UTC().Format(time.RFC3339),
			Version:     cryptoDomain.EnvelopeVersion,
			DataType:    cryptoDomain.DataTypeDailySummary,
		},
	}, nil
}

// Decrypt opens an envelope and returns the plaintext JSON bytes.
//
// Authentication failures (wrong key, tampered ciphertext) and digest
// mismatches are reported as distinct errors so callers can tell a broken
// envelope from a wrong-content one.
func (s *EnvelopeEncryptionService) Decrypt(
	ctx context.Context,
	envelope *cryptoDomain.Envelope,
) ([]byte, error) {
	if !envelope.Algorithm.Valid() {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypted_data is not valid base64", cryptoDomain.ErrAuthenticationFailed)
	}

	nonce, err := base64.StdEncoding.DecodeString(envelope.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce is not valid base64", cryptoDomain.ErrAuthenticationFailed)
	}
	if len(nonce) != cryptoDomain.NonceSize {
		return nil, cryptoDomain.ErrInvalidNonceSize
	}

	key, err := s.keyProvider.CurrentKey(ctx)
	if err != nil {
		return nil, err
	}

	aead, err := s.aeadManager.CreateCipher(key.Plaintext, envelope.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}

	if envelope.DataHash != "" {
		digest := sha256.Sum256(plaintext)
		want := strings.ToLower(envelope.DataHash)
		got := hex.EncodeToString(digest[:])
		if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			return nil, cryptoDomain.ErrIntegrityMismatch
		}
	}

	return plaintext, nil
}

// Algorithm returns the cipher used for new envelopes.
func (s *EnvelopeEncryptionService) Algorithm() cryptoDomain.Algorithm {
	return s.algorithm
}
