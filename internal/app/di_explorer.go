package app

import (
	"fmt"

	explorerService "github.com/allisson/dataproof/internal/explorer/service"
)

// Explorer returns the blockchain explorer client wrapped with the TTL cache.
func (c *Container) Explorer() (explorerService.Explorer, error) {
	var err error
	c.explorerInit.Do(func() {
		c.cachedExplorer, err = c.initExplorer()
		if err != nil {
			c.initErrors["explorer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["explorer"]; exists {
		return nil, storedErr
	}
	return c.cachedExplorer, nil
}

// initExplorer creates the explorer client and its caching layer.
func (c *Container) initExplorer() (*explorerService.CachedExplorer, error) {
	client := explorerService.NewBscScanClient(explorerService.BscScanConfig{
		BaseURL:         c.config.ExplorerBaseURL,
		APIKey:          c.config.ExplorerAPIKey,
		ContractAddress: c.config.SubscriptionContractAddress,
		MaxRetries:      c.config.ExplorerMaxRetries,
		RetryBaseDelay:  c.config.ExplorerRetryBaseDelay,
		RequestTimeout:  c.config.ExplorerRequestTimeout,
	}, c.Logger())

	cached, err := explorerService.NewCachedExplorer(client, c.config.ExplorerCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create explorer cache: %w", err)
	}
	return cached, nil
}
