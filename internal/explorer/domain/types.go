// Package domain defines the read models served from the blockchain explorer.
package domain

import "time"

// SubscriptionStatus is the on-chain subscription state of an account.
type SubscriptionStatus struct {
	// Address is the queried account, normalized to lowercase.
	Address string `json:"address"`

	// Active reports the contract's isActive view.
	Active bool `json:"active"`

	// ExpiresAt is the subscriptionUntil timestamp; zero when never subscribed.
	ExpiresAt time.Time `json:"expires_at,omitempty"`

	// CheckedAt is when the chain was last queried. Cached responses keep the
	// original query time so clients can judge staleness.
	CheckedAt time.Time `json:"checked_at"`
}

// TxStatusValue enumerates receipt outcomes.
type TxStatusValue string

const (
	TxStatusSuccess TxStatusValue = "success"
	TxStatusFailed  TxStatusValue = "failed"
	TxStatusPending TxStatusValue = "pending"
)

// TxStatus is the receipt status of a transaction.
type TxStatus struct {
	Hash      string        `json:"hash"`
	Status    TxStatusValue `json:"status"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Balance is an account's native-token balance in wei, kept as a decimal
// string because it exceeds uint64 range.
type Balance struct {
	Address   string    `json:"address"`
	Wei       string    `json:"wei"`
	CheckedAt time.Time `json:"checked_at"`
}
