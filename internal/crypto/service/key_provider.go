package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
)

// KeyProviderService resolves the envelope encryption key through a tiered
// fallback chain:
//
//  1. KMS: a fresh data key is generated and wrapped by the configured
//     gocloud.dev keeper. This is the production path.
//  2. Local: a fresh data key is generated and wrapped under a 32-byte
//     master key supplied through configuration (base64).
//  3. Ephemeral: a fresh data key is generated and held only in memory.
//     Anything encrypted under it is unrecoverable after a restart, so the
//     fallback is logged loudly.
//
// A failing tier never aborts startup; the provider degrades to the next tier
// and records which one won so operators can see it on every proof record.
//
// The provider is safe for concurrent use. Rotate swaps the active key under
// a write lock; readers share the current key through CurrentKey.
type KeyProviderService struct {
	kms         KMSService
	aeadManager AEADManager
	keyURI      string
	masterKey   []byte
	logger      *slog.Logger

	mu      sync.RWMutex
	keeper  cryptoDomain.KMSKeeper
	current *cryptoDomain.DataKey
}

// NewKeyProvider resolves the active key at construction time.
//
// keyURI selects the KMS tier when non-empty. localMasterKeyB64 selects the
// local tier when non-empty and keyURI is empty or the KMS is unreachable.
// With neither configured an ephemeral key is generated.
func NewKeyProvider(
	ctx context.Context,
	kms KMSService,
	aeadManager AEADManager,
	keyURI string,
	localMasterKeyB64 string,
	logger *slog.Logger,
) (*KeyProviderService, error) {
	p := &KeyProviderService{
		kms:         kms,
		aeadManager: aeadManager,
		keyURI:      keyURI,
		logger:      logger,
	}

	if localMasterKeyB64 != "" {
		masterKey, err := base64.StdEncoding.DecodeString(localMasterKeyB64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode local master key: %w", err)
		}
		if len(masterKey) != cryptoDomain.KeySize {
			cryptoDomain.Zero(masterKey)
			return nil, cryptoDomain.ErrInvalidKeySize
		}
		p.masterKey = masterKey
	}

	key, err := p.resolveKey(ctx)
	if err != nil {
		return nil, err
	}
	p.current = key

	return p, nil
}

// resolveKey walks the tier chain and returns the first key it can produce.
func (p *KeyProviderService) resolveKey(ctx context.Context) (*cryptoDomain.DataKey, error) {
	if p.keyURI != "" {
		key, err := p.resolveKMSKey(ctx)
		if err == nil {
			p.logger.Info("encryption key resolved",
				slog.String("source", string(cryptoDomain.SourceKMS)),
			)
			return key, nil
		}
		p.logger.Warn("KMS key resolution failed, falling back",
			slog.String("key_uri", p.keyURI),
			slog.Any("error", err),
		)
	}

	if p.masterKey != nil {
		key, err := p.resolveLocalKey()
		if err != nil {
			return nil, err
		}
		p.logger.Info("encryption key resolved",
			slog.String("source", string(cryptoDomain.SourceLocal)),
		)
		return key, nil
	}

	key, err := generateDataKey()
	if err != nil {
		return nil, err
	}
	p.logger.Warn(
		"using ephemeral encryption key, data will be unrecoverable after restart, " +
			"not suitable for production",
	)
	return &cryptoDomain.DataKey{
		Plaintext: key,
		Source:    cryptoDomain.SourceEphemeral,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// resolveKMSKey generates a data key and wraps it with the KMS keeper.
func (p *KeyProviderService) resolveKMSKey(ctx context.Context) (*cryptoDomain.DataKey, error) {
	if p.keeper == nil {
		keeper, err := p.kms.OpenKeeper(ctx, p.keyURI)
		if err != nil {
			return nil, err
		}
		p.keeper = keeper
	}

	key, err := generateDataKey()
	if err != nil {
		return nil, err
	}

	wrapped, err := p.keeper.Encrypt(ctx, key)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to wrap data key: %w", err)
	}

	return &cryptoDomain.DataKey{
		Plaintext: key,
		Wrapped:   wrapped,
		Source:    cryptoDomain.SourceKMS,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// resolveLocalKey generates a data key and wraps it under the local master
// key. The wrapped form is nonce || ciphertext so it round-trips through a
// single opaque blob.
func (p *KeyProviderService) resolveLocalKey() (*cryptoDomain.DataKey, error) {
	key, err := generateDataKey()
	if err != nil {
		return nil, err
	}

	aead, err := p.aeadManager.CreateCipher(p.masterKey, cryptoDomain.AESGCM)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(key, nil)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to wrap data key: %w", err)
	}

	wrapped := make([]byte, 0, len(nonce)+len(ciphertext))
	wrapped = append(wrapped, nonce...)
	wrapped = append(wrapped, ciphertext...)

	return &cryptoDomain.DataKey{
		Plaintext: key,
		Wrapped:   wrapped,
		Source:    cryptoDomain.SourceLocal,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CurrentKey returns the active data key.
func (p *KeyProviderService) CurrentKey(ctx context.Context) (*cryptoDomain.DataKey, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return nil, cryptoDomain.ErrKeyUnavailable
	}
	return p.current, nil
}

// UnwrapKey recovers plaintext key material from its wrapped form.
//
// For the KMS tier the keeper performs the unwrap. For the local tier the
// wrapped blob is nonce || ciphertext under the master key. Ephemeral keys
// have no wrapped form, so unwrapping is not available.
func (p *KeyProviderService) UnwrapKey(ctx context.Context, wrapped []byte) ([]byte, error) {
	p.mu.RLock()
	keeper := p.keeper
	source := cryptoDomain.SourceEphemeral
	if p.current != nil {
		source = p.current.Source
	}
	p.mu.RUnlock()

	switch source {
	case cryptoDomain.SourceKMS:
		key, err := keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap data key: %w", err)
		}
		return key, nil

	case cryptoDomain.SourceLocal:
		if len(wrapped) <= cryptoDomain.NonceSize {
			return nil, cryptoDomain.ErrInvalidNonceSize
		}
		aead, err := p.aeadManager.CreateCipher(p.masterKey, cryptoDomain.AESGCM)
		if err != nil {
			return nil, err
		}
		nonce := wrapped[:cryptoDomain.NonceSize]
		ciphertext := wrapped[cryptoDomain.NonceSize:]
		key, err := aead.Decrypt(ciphertext, nonce, nil)
		if err != nil {
			return nil, cryptoDomain.ErrAuthenticationFailed
		}
		return key, nil

	default:
		return nil, cryptoDomain.ErrKeyUnavailable
	}
}

// Rotate generates and activates a new data key through the same tier that
// produced the current one. Previously written envelopes keep their old key
// and are not re-encrypted.
func (p *KeyProviderService) Rotate(ctx context.Context) (*cryptoDomain.RotationInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := p.resolveKey(ctx)
	if err != nil {
		return nil, err
	}

	// The rotated-out key is not zeroed here: encrypt and decrypt calls that
	// captured it before the swap must finish under the key they started with.
	// Its material is dropped with the last reference.
	p.current = key

	info := &cryptoDomain.RotationInfo{
		Source:     key.Source,
		WrappedKey: key.Wrapped,
		RotatedAt:  key.CreatedAt,
	}
	// Local and ephemeral keys are returned once in plaintext so the operator
	// can persist them to configuration; a KMS-wrapped key never leaves the
	// keeper in the clear.
	if key.Source != cryptoDomain.SourceKMS {
		info.PlaintextKeyB64 = base64.StdEncoding.EncodeToString(key.Plaintext)
	}

	p.logger.Info("encryption key rotated",
		slog.String("source", string(key.Source)),
	)

	return info, nil
}

// Info returns the non-secret description of the active key.
func (p *KeyProviderService) Info() cryptoDomain.KeyInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	// Algorithm is filled in by the caller; the provider only knows keys.
	var info cryptoDomain.KeyInfo
	if p.current != nil {
		info.Source = p.current.Source
		info.KMSEnabled = p.current.Source == cryptoDomain.SourceKMS
		info.CreatedAt = p.current.CreatedAt
	}
	return info
}

// Close zeroes held key material and releases the KMS keeper, if any.
func (p *KeyProviderService) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Zero()
		p.current = nil
	}
	cryptoDomain.Zero(p.masterKey)

	if p.keeper != nil {
		err := p.keeper.Close()
		p.keeper = nil
		return err
	}
	return nil
}

// generateDataKey returns 32 bytes from crypto/rand.
func generateDataKey() ([]byte, error) {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}
	return key, nil
}
