package domain

import (
	"github.com/allisson/dataproof/internal/errors"
)

// Proof error definitions.
var (
	// ErrRecordNotFound indicates no proof record matches the query.
	//
	// HTTP Status: 404 Not Found
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "proof record")

	// ErrDocumentMalformed indicates the fetched document is not valid JSON or
	// lacks the fields its kind requires.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDocumentMalformed = errors.Wrap(errors.ErrInvalidInput, "stored document malformed")

	// ErrNotEncrypted indicates a decrypt was requested for a plain document.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrNotEncrypted = errors.Wrap(errors.ErrInvalidInput, "document is not encrypted")
)
