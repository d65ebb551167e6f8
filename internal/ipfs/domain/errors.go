package domain

import (
	"github.com/allisson/dataproof/internal/errors"
)

// Pinning store error definitions.
var (
	// ErrStoreUnavailable indicates the pinning service could not be reached
	// or kept failing after the configured retries.
	//
	// HTTP Status: 502 Bad Gateway
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "pinning store")

	// ErrContentNotFound indicates no content exists for the requested CID.
	//
	// HTTP Status: 404 Not Found
	ErrContentNotFound = errors.Wrap(errors.ErrNotFound, "content")

	// ErrStoreAuthentication indicates the pinning service rejected the
	// configured credentials. Never retried.
	//
	// HTTP Status: 401 Unauthorized
	ErrStoreAuthentication = errors.Wrap(errors.ErrUnauthorized, "pinning store credentials")
)
