package domain

import "context"

// KMSKeeper abstracts a KMS wrapping key. *secrets.Keeper from
// gocloud.dev/secrets implements this interface.
type KMSKeeper interface {
	// Encrypt wraps plaintext key material under the KMS key.
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)

	// Decrypt unwraps key material previously wrapped by Encrypt.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)

	// Close releases resources held by the keeper.
	Close() error
}
