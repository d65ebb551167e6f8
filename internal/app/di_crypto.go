package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	cryptoService "github.com/allisson/dataproof/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyProvider returns the key provider. The active key is resolved at
// first access, falling through KMS, local master key and ephemeral tiers.
func (c *Container) KeyProvider() (cryptoService.KeyProvider, error) {
	var err error
	c.keyProviderInit.Do(func() {
		c.keyProvider, err = c.initKeyProvider()
		if err != nil {
			c.initErrors["keyProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyProvider"]; exists {
		return nil, storedErr
	}
	return c.keyProvider, nil
}

// EnvelopeService returns the envelope encryption service.
func (c *Container) EnvelopeService() (cryptoService.EnvelopeService, error) {
	var err error
	c.envelopeServiceInit.Do(func() {
		c.envelopeService, err = c.initEnvelopeService()
		if err != nil {
			c.initErrors["envelopeService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeService"]; exists {
		return nil, storedErr
	}
	return c.envelopeService, nil
}

// initKeyProvider resolves the active encryption key from configuration.
func (c *Container) initKeyProvider() (cryptoService.KeyProvider, error) {
	provider, err := cryptoService.NewKeyProvider(
		context.Background(),
		c.KMSService(),
		c.AEADManager(),
		c.config.KMSKeyURI,
		c.config.LocalMasterKey,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create key provider: %w", err)
	}
	return provider, nil
}

// initEnvelopeService creates the envelope service with the configured cipher.
func (c *Container) initEnvelopeService() (cryptoService.EnvelopeService, error) {
	keyProvider, err := c.KeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for envelope service: %w", err)
	}

	envelope, err := cryptoService.NewEnvelopeService(
		keyProvider,
		c.AEADManager(),
		cryptoDomain.Algorithm(c.config.EncryptionAlgorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope service: %w", err)
	}
	return envelope, nil
}
