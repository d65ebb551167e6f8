// Package dto provides data transfer objects for proof HTTP handlers.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/dataproof/internal/validation"
)

// CreateProofRequest contains the parameters for creating a daily proof.
type CreateProofRequest struct {
	// Payload is the daily summary document to pin.
	Payload json.RawMessage `json:"payload"`
	// Encrypt seals the payload in an encryption envelope before pinning.
	Encrypt bool `json:"encrypt"`
}

// Validate checks the create request.
func (r CreateProofRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Payload, validation.Required.Error("payload is required")),
	)
}

// VerifyProofRequest carries the CID from the URL path and the optional
// expected date from the query string.
type VerifyProofRequest struct {
	CID          string
	ExpectedDate string
}

// Validate checks the verify request. An empty expected date is allowed; a
// supplied one must be well formed.
func (r VerifyProofRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CID, validation.Required, customValidation.CID),
		validation.Field(&r.ExpectedDate, customValidation.Date),
	)
}

// ListProofsRequest carries the optional date filter.
type ListProofsRequest struct {
	Date string
}

// Validate checks the list request.
func (r ListProofsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, customValidation.Date),
	)
}

// DecryptProofRequest carries the CID from the URL path.
type DecryptProofRequest struct {
	CID string
}

// Validate checks the decrypt request.
func (r DecryptProofRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CID, validation.Required, customValidation.CID),
	)
}
