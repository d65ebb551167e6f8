package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMasterKeyB64(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func TestKeyProvider_KMSTier(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKeyProvider(
		ctx,
		NewKMSService(),
		NewAEADManager(),
		generateLocalSecretsURI(t),
		"",
		testLogger(),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Close())
	}()

	key, err := provider.CurrentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.SourceKMS, key.Source)
	assert.Len(t, key.Plaintext, 32)
	assert.NotEmpty(t, key.Wrapped)

	// The wrapped form round-trips through the keeper
	unwrapped, err := provider.UnwrapKey(ctx, key.Wrapped)
	require.NoError(t, err)
	assert.Equal(t, key.Plaintext, unwrapped)

	info := provider.Info()
	assert.Equal(t, cryptoDomain.SourceKMS, info.Source)
	assert.True(t, info.KMSEnabled)
}

func TestKeyProvider_KMSFailureFallsBackToLocal(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKeyProvider(
		ctx,
		NewKMSService(),
		NewAEADManager(),
		"invalid://uri",
		testMasterKeyB64(t),
		testLogger(),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Close())
	}()

	key, err := provider.CurrentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.SourceLocal, key.Source)
}

func TestKeyProvider_LocalTier(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKeyProvider(
		ctx,
		NewKMSService(),
		NewAEADManager(),
		"",
		testMasterKeyB64(t),
		testLogger(),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Close())
	}()

	key, err := provider.CurrentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.SourceLocal, key.Source)
	assert.Len(t, key.Plaintext, 32)
	// nonce || ciphertext || tag
	assert.Len(t, key.Wrapped, 12+32+16)

	unwrapped, err := provider.UnwrapKey(ctx, key.Wrapped)
	require.NoError(t, err)
	assert.Equal(t, key.Plaintext, unwrapped)

	info := provider.Info()
	assert.Equal(t, cryptoDomain.SourceLocal, info.Source)
	assert.False(t, info.KMSEnabled)
}

func TestKeyProvider_LocalTierInvalidMasterKey(t *testing.T) {
	ctx := context.Background()

	t.Run("not base64", func(t *testing.T) {
		_, err := NewKeyProvider(
			ctx, NewKMSService(), NewAEADManager(), "", "not-base64!!!", testLogger(),
		)
		assert.Error(t, err)
	})

	t.Run("wrong size", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("too short"))
		_, err := NewKeyProvider(
			ctx, NewKMSService(), NewAEADManager(), "", short, testLogger(),
		)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestKeyProvider_EphemeralTier(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKeyProvider(
		ctx, NewKMSService(), NewAEADManager(), "", "", testLogger(),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Close())
	}()

	key, err := provider.CurrentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.SourceEphemeral, key.Source)
	assert.Len(t, key.Plaintext, 32)
	assert.Empty(t, key.Wrapped)

	// Ephemeral keys have no wrapped form to recover
	_, err = provider.UnwrapKey(ctx, []byte("anything"))
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
}

func TestKeyProvider_Rotate(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKeyProvider(
		ctx, NewKMSService(), NewAEADManager(), "", testMasterKeyB64(t), testLogger(),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Close())
	}()

	before, err := provider.CurrentKey(ctx)
	require.NoError(t, err)
	oldKey := make([]byte, len(before.Plaintext))
	copy(oldKey, before.Plaintext)

	info, err := provider.Rotate(ctx)
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.SourceLocal, info.Source)
	assert.NotEmpty(t, info.WrappedKey)
	assert.NotEmpty(t, info.PlaintextKeyB64)

	after, err := provider.CurrentKey(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, after.Plaintext)

	// The rotated-out key stays intact for callers that captured it
	assert.Equal(t, oldKey, before.Plaintext)
}

func TestKeyProvider_RotateKeepsCapturedKeyUsable(t *testing.T) {
	ctx := context.Background()
	manager := NewAEADManager()

	provider, err := NewKeyProvider(
		ctx, NewKMSService(), manager, "", "", testLogger(),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Close())
	}()

	// An encrypt call in flight captures the key before rotation swaps it.
	captured, err := provider.CurrentKey(ctx)
	require.NoError(t, err)

	aead, err := manager.CreateCipher(captured.Plaintext, cryptoDomain.AESGCM)
	require.NoError(t, err)

	plaintext := []byte(`{"date":"2026-08-30","total_users":42}`)
	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	require.NoError(t, err)

	_, err = provider.Rotate(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, make([]byte, cryptoDomain.KeySize), captured.Plaintext)

	// A cipher built from the captured key after the swap still opens the
	// envelope sealed before it.
	lateCipher, err := manager.CreateCipher(captured.Plaintext, cryptoDomain.AESGCM)
	require.NoError(t, err)

	decrypted, err := lateCipher.Decrypt(ciphertext, nonce, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestKeyProvider_CloseZeroesKey(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKeyProvider(
		ctx, NewKMSService(), NewAEADManager(), "", "", testLogger(),
	)
	require.NoError(t, err)

	key, err := provider.CurrentKey(ctx)
	require.NoError(t, err)
	held := key.Plaintext

	require.NoError(t, provider.Close())

	for _, b := range held {
		assert.Equal(t, byte(0), b)
	}

	_, err = provider.CurrentKey(ctx)
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
}
