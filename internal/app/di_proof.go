package app

import (
	"fmt"

	proofRepository "github.com/allisson/dataproof/internal/proof/repository"
	proofUsecase "github.com/allisson/dataproof/internal/proof/usecase"
)

// ProofRepository returns the append-only record index based on the database driver.
func (c *Container) ProofRepository() (proofUsecase.ProofRepository, error) {
	var err error
	c.proofRepositoryInit.Do(func() {
		c.proofRepository, err = c.initProofRepository()
		if err != nil {
			c.initErrors["proofRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["proofRepository"]; exists {
		return nil, storedErr
	}
	return c.proofRepository, nil
}

// ProofUseCase returns the proof pipeline use case.
func (c *Container) ProofUseCase() (proofUsecase.ProofUseCase, error) {
	var err error
	c.proofUseCaseInit.Do(func() {
		c.proofUseCase, err = c.initProofUseCase()
		if err != nil {
			c.initErrors["proofUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["proofUseCase"]; exists {
		return nil, storedErr
	}
	return c.proofUseCase, nil
}

// initProofRepository creates the record index based on the database driver.
func (c *Container) initProofRepository() (proofUsecase.ProofRepository, error) {
	switch c.config.DBDriver {
	case "memory":
		return proofRepository.NewMemoryProofRepository(), nil
	case "postgres":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for proof repository: %w", err)
		}
		return proofRepository.NewPostgreSQLProofRepository(db), nil
	case "mysql":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for proof repository: %w", err)
		}
		return proofRepository.NewMySQLProofRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initProofUseCase creates the proof use case with all its dependencies.
func (c *Container) initProofUseCase() (proofUsecase.ProofUseCase, error) {
	keyProvider, err := c.KeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for proof use case: %w", err)
	}

	envelope, err := c.EnvelopeService()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope service for proof use case: %w", err)
	}

	repo, err := c.ProofRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get proof repository for proof use case: %w", err)
	}

	baseUseCase := proofUsecase.NewProofUseCase(
		keyProvider,
		envelope,
		c.StoreClient(),
		repo,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for proof use case: %w", err)
		}
		return proofUsecase.NewProofUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
