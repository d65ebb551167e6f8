package domain

import (
	"github.com/allisson/dataproof/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys must be exactly 32 bytes (256 bits) for both AES-256-GCM and
	// ChaCha20-Poly1305.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidNonceSize indicates a nonce of the wrong length was supplied.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidNonceSize = errors.Wrap(errors.ErrInvalidInput, "invalid nonce size")

	// ErrKeyUnavailable indicates no usable encryption key could be resolved,
	// typically because the KMS is unreachable and no fallback is configured.
	//
	// HTTP Status: 502 Bad Gateway
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "encryption key unavailable")

	// ErrAuthenticationFailed indicates AEAD authentication failed during
	// decryption. This covers wrong keys, tampered ciphertext and corrupted
	// nonces; the specific cause is deliberately not disclosed.
	//
	// HTTP Status: 400 Bad Request
	ErrAuthenticationFailed = errors.Wrap(errors.ErrAuthenticationFailed, "envelope decryption")

	// ErrIntegrityMismatch indicates decryption succeeded but the recovered
	// plaintext does not hash to the digest recorded in the envelope.
	//
	// HTTP Status: 400 Bad Request
	ErrIntegrityMismatch = errors.Wrap(errors.ErrIntegrityMismatch, "plaintext digest")
)
