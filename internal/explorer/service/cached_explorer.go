package service

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"

	explorerDomain "github.com/allisson/dataproof/internal/explorer/domain"
)

// CachedExplorer decorates an Explorer with a short-TTL read cache.
//
// Explorer reads are rate limited upstream and the answers change slowly, so
// every read is served from cache for the configured TTL. Concurrent misses
// for the same key are collapsed into a single upstream call through
// singleflight; only errors bypass the cache.
type CachedExplorer struct {
	next  Explorer
	cache *ristretto.Cache
	group singleflight.Group
	ttl   time.Duration
}

// NewCachedExplorer wraps next with a TTL cache.
func NewCachedExplorer(next Explorer, ttl time.Duration) (*CachedExplorer, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &CachedExplorer{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}, nil
}

// SubscriptionStatus returns the cached subscription state, querying the chain
// on a miss.
func (c *CachedExplorer) SubscriptionStatus(
	ctx context.Context,
	address string,
) (*explorerDomain.SubscriptionStatus, error) {
	key := "subscription:" + strings.ToLower(address)

	value, err := c.fetch(ctx, key, func() (any, error) {
		return c.next.SubscriptionStatus(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return value.(*explorerDomain.SubscriptionStatus), nil
}

// TransactionStatus returns the cached receipt status, querying the explorer
// on a miss.
func (c *CachedExplorer) TransactionStatus(
	ctx context.Context,
	hash string,
) (*explorerDomain.TxStatus, error) {
	key := "tx:" + strings.ToLower(hash)

	value, err := c.fetch(ctx, key, func() (any, error) {
		return c.next.TransactionStatus(ctx, hash)
	})
	if err != nil {
		return nil, err
	}
	return value.(*explorerDomain.TxStatus), nil
}

// AccountBalance returns the cached balance, querying the explorer on a miss.
func (c *CachedExplorer) AccountBalance(
	ctx context.Context,
	address string,
) (*explorerDomain.Balance, error) {
	key := "balance:" + strings.ToLower(address)

	value, err := c.fetch(ctx, key, func() (any, error) {
		return c.next.AccountBalance(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return value.(*explorerDomain.Balance), nil
}

// Ping is never cached.
func (c *CachedExplorer) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// Close releases the cache's background goroutines.
func (c *CachedExplorer) Close() {
	c.cache.Close()
}

// fetch serves key from cache, collapsing concurrent misses.
func (c *CachedExplorer) fetch(
	ctx context.Context,
	key string,
	load func() (any, error),
) (any, error) {
	if value, found := c.cache.Get(key); found {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: another caller may have filled the cache while this one
		// waited on the flight group.
		if value, found := c.cache.Get(key); found {
			return value, nil
		}

		value, err := load()
		if err != nil {
			return nil, err
		}

		c.cache.SetWithTTL(key, value, 1, c.ttl)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
