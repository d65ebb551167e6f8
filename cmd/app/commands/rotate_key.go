package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	cryptoService "github.com/allisson/dataproof/internal/crypto/service"
)

// RunRotateKey rotates the active envelope encryption key. Only future
// encryptions use the new key; previously pinned envelopes keep theirs.
func RunRotateKey(
	ctx context.Context,
	keyProvider cryptoService.KeyProvider,
	logger *slog.Logger,
	out io.Writer,
) error {
	rotation, err := keyProvider.Rotate(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	logger.Info("encryption key rotated", slog.String("source", string(rotation.Source)))

	fmt.Fprintln(out, "# Key rotation complete")
	fmt.Fprintf(out, "# Source: %s\n", rotation.Source)
	fmt.Fprintf(out, "# Rotated at: %s\n", rotation.RotatedAt.Format("2006-01-02T15:04:05Z07:00"))
	if len(rotation.WrappedKey) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "# Wrapped form of the new data key, kept as an operator record:")
		fmt.Fprintf(out, "# WRAPPED_DATA_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(rotation.WrappedKey))
	}
	if rotation.Source == cryptoDomain.SourceEphemeral {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "# The new key is ephemeral; envelopes sealed under it are")
		fmt.Fprintln(out, "# unrecoverable after a restart")
	}

	return nil
}
