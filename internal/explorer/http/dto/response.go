package dto

import (
	"time"

	explorerDomain "github.com/allisson/dataproof/internal/explorer/domain"
)

// SubscriptionStatusResponse is the API representation of an account's
// on-chain subscription state.
type SubscriptionStatusResponse struct {
	Address   string     `json:"address"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CheckedAt time.Time  `json:"checked_at"`
}

// MapSubscriptionStatusToResponse converts the domain status to a response.
func MapSubscriptionStatusToResponse(status *explorerDomain.SubscriptionStatus) SubscriptionStatusResponse {
	response := SubscriptionStatusResponse{
		Address:   status.Address,
		Active:    status.Active,
		CheckedAt: status.CheckedAt,
	}
	if !status.ExpiresAt.IsZero() {
		expiresAt := status.ExpiresAt
		response.ExpiresAt = &expiresAt
	}

	return response
}

// TransactionStatusResponse is the API representation of a receipt status.
type TransactionStatusResponse struct {
	Hash      string    `json:"hash"`
	Status    string    `json:"status"`
	CheckedAt time.Time `json:"checked_at"`
}

// MapTxStatusToResponse converts the domain receipt status to a response.
func MapTxStatusToResponse(status *explorerDomain.TxStatus) TransactionStatusResponse {
	return TransactionStatusResponse{
		Hash:      status.Hash,
		Status:    string(status.Status),
		CheckedAt: status.CheckedAt,
	}
}
