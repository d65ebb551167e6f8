package domain

import (
	"github.com/allisson/dataproof/internal/errors"
)

// Explorer error definitions.
var (
	// ErrExplorerUnavailable indicates the explorer API kept failing after the
	// configured retries (transport errors, 5xx or sustained rate limiting).
	//
	// HTTP Status: 502 Bad Gateway
	ErrExplorerUnavailable = errors.Wrap(errors.ErrUnavailable, "blockchain explorer")

	// ErrExplorerRejected indicates the explorer answered but rejected the
	// request (bad API key, malformed parameters). Never retried.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrExplorerRejected = errors.Wrap(errors.ErrInvalidInput, "explorer rejected request")
)
