// Package service provides cryptographic services for envelope encryption.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), tiered key
// resolution and the envelope encrypt/decrypt flow.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyProvider resolves and manages the symmetric key used for envelope
// encryption. Implementations are safe for concurrent use.
type KeyProvider interface {
	// CurrentKey returns the active data key. The returned key is shared;
	// callers must not mutate or zero it.
	CurrentKey(ctx context.Context) (*cryptoDomain.DataKey, error)

	// UnwrapKey recovers plaintext key material from its wrapped form using
	// the provider's wrapping tier.
	UnwrapKey(ctx context.Context, wrapped []byte) ([]byte, error)

	// Rotate generates and activates a new data key. Only future encryptions
	// use the new key; previously written envelopes are not re-encrypted.
	Rotate(ctx context.Context) (*cryptoDomain.RotationInfo, error)

	// Info returns the non-secret description of the active key.
	Info() cryptoDomain.KeyInfo

	// Close zeroes held key material and releases the KMS keeper, if any.
	Close() error
}

// EnvelopeService encrypts and decrypts JSON payloads as wire envelopes.
type EnvelopeService interface {
	// Encrypt marshals payload to JSON and seals it into an envelope using
	// the provider's current key and a fresh nonce.
	Encrypt(ctx context.Context, payload any) (*cryptoDomain.Envelope, error)

	// Decrypt opens an envelope and returns the plaintext JSON bytes.
	// The recovered plaintext is checked against the envelope's digest.
	Decrypt(ctx context.Context, envelope *cryptoDomain.Envelope) ([]byte, error)

	// Algorithm returns the cipher used for new envelopes.
	Algorithm() cryptoDomain.Algorithm
}
