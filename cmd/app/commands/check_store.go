package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	ipfsService "github.com/allisson/dataproof/internal/ipfs/service"
)

// RunCheckStore probes the pinning store credentials and reports the result.
func RunCheckStore(
	ctx context.Context,
	store ipfsService.Client,
	logger *slog.Logger,
	out io.Writer,
) error {
	if err := store.TestAuthentication(ctx); err != nil {
		logger.Error("store authentication failed", slog.Any("error", err))
		return fmt.Errorf("store authentication failed: %w", err)
	}

	fmt.Fprintln(out, "store authentication OK")
	return nil
}
