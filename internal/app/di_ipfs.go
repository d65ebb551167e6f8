package app

import (
	ipfsService "github.com/allisson/dataproof/internal/ipfs/service"
)

// StoreClient returns the pinning store client.
func (c *Container) StoreClient() ipfsService.Client {
	c.storeClientInit.Do(func() {
		c.storeClient = ipfsService.NewPinataClient(ipfsService.ClientConfig{
			BaseURL:        c.config.PinataBaseURL,
			GatewayURL:     c.config.PinataGatewayURL,
			JWT:            c.config.PinataJWT,
			APIKey:         c.config.PinataAPIKey,
			SecretAPIKey:   c.config.PinataSecretAPIKey,
			MaxRetries:     c.config.PinataMaxRetries,
			RetryBaseDelay: c.config.PinataRetryBaseDelay,
			RetryMaxDelay:  c.config.PinataRetryMaxDelay,
			RequestTimeout: c.config.PinataRequestTimeout,
		}, c.Logger())
	})
	return c.storeClient
}
