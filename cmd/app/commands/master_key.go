package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	cryptoService "github.com/allisson/dataproof/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for wrapping envelope data keys. Key material is zeroed from memory after
// encoding.
//
// Without a KMS key URI the key is printed in plaintext for the
// LOCAL_MASTER_KEY environment variable. With a KMS key URI the keeper is
// opened and the generated key is wrapped through it, proving the KMS
// configuration works end to end; at runtime the keeper wraps data keys
// directly, so no master key variable is needed.
func RunCreateMasterKey(
	ctx context.Context,
	kms cryptoService.KMSService,
	logger *slog.Logger,
	out io.Writer,
	kmsKeyURI string,
) error {
	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsKeyURI == "" {
		fmt.Fprintln(out, "# Master Key Configuration (local mode)")
		fmt.Fprintln(out, "# Copy this environment variable to your .env file or secrets manager")
		fmt.Fprintln(out, "# Anyone holding this value can decrypt every envelope; store it accordingly")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "LOCAL_MASTER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(masterKey))
		return nil
	}

	keeper, err := kms.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	wrapped, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to wrap master key with KMS: %w", err)
	}

	fmt.Fprintln(out, "# Master Key Configuration (KMS mode)")
	fmt.Fprintln(out, "# The keeper wraps data keys at runtime; no LOCAL_MASTER_KEY is needed")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "# Wrapped copy of the generated key, kept only as an operator record:")
	fmt.Fprintf(out, "# WRAPPED_MASTER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(wrapped))

	return nil
}
