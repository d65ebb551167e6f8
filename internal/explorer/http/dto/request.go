// Package dto provides data transfer objects for explorer HTTP handlers.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/dataproof/internal/validation"
)

// SubscriptionStatusRequest carries the account address from the query string.
type SubscriptionStatusRequest struct {
	Address string
}

// Validate checks the address format.
func (r SubscriptionStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Address, validation.Required, customValidation.EthAddress),
	)
}

// TransactionStatusRequest carries the transaction hash from the URL path.
type TransactionStatusRequest struct {
	Hash string
}

// Validate checks the transaction hash format.
func (r TransactionStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Hash, validation.Required, customValidation.TxHash),
	)
}
