// Package service implements the client for the content-addressed pinning
// store (Pinata-compatible API).
package service

import (
	"context"

	ipfsDomain "github.com/allisson/dataproof/internal/ipfs/domain"
)

// Client defines the operations against the pinning store.
//
// All operations except TestAuthentication retry transient failures
// (transport errors and 5xx responses) with exponential backoff; 4xx
// responses are never retried.
type Client interface {
	// PinJSON uploads a JSON document and pins it, returning its CIDv1.
	PinJSON(ctx context.Context, content any, metadata ipfsDomain.PinMetadata) (*ipfsDomain.PinResult, error)

	// FetchByCID retrieves pinned content through the gateway.
	FetchByCID(ctx context.Context, cid string) ([]byte, error)

	// Pin pins already-stored content by its CID. Pinning an already-pinned
	// CID succeeds without duplicating anything.
	Pin(ctx context.Context, cid string, metadata ipfsDomain.PinMetadata) (*ipfsDomain.PinResult, error)

	// TestAuthentication probes the store credentials. Never retried.
	TestAuthentication(ctx context.Context) error

	// ListPins returns a page of currently pinned files.
	ListPins(ctx context.Context, limit, offset int) ([]ipfsDomain.PinnedFile, error)

	// Unpin removes a pin. Operator tooling only; proof records referencing
	// the CID are never deleted.
	Unpin(ctx context.Context, cid string) error

	// GatewayURL returns the public gateway URL for a CID.
	GatewayURL(cid string) string
}
