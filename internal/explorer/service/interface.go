// Package service implements the blockchain explorer client and its caching
// layer.
package service

import (
	"context"

	explorerDomain "github.com/allisson/dataproof/internal/explorer/domain"
)

// Explorer defines read operations against the blockchain explorer API.
type Explorer interface {
	// SubscriptionStatus reads the subscription-manager contract for an account.
	SubscriptionStatus(ctx context.Context, address string) (*explorerDomain.SubscriptionStatus, error)

	// TransactionStatus returns the receipt status of a transaction.
	TransactionStatus(ctx context.Context, hash string) (*explorerDomain.TxStatus, error)

	// AccountBalance returns an account's native-token balance.
	AccountBalance(ctx context.Context, address string) (*explorerDomain.Balance, error)

	// Ping verifies the explorer API is reachable.
	Ping(ctx context.Context) error
}
