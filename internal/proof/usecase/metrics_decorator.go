package usecase

import (
	"context"
	"encoding/json"
	"time"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	"github.com/allisson/dataproof/internal/metrics"
	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

// proofUseCaseWithMetrics decorates ProofUseCase with metrics instrumentation.
type proofUseCaseWithMetrics struct {
	next    ProofUseCase
	metrics metrics.BusinessMetrics
}

// NewProofUseCaseWithMetrics wraps a ProofUseCase with metrics recording.
func NewProofUseCaseWithMetrics(useCase ProofUseCase, m metrics.BusinessMetrics) ProofUseCase {
	return &proofUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// CreateDailyProof records metrics for proof creation.
func (p *proofUseCaseWithMetrics) CreateDailyProof(
	ctx context.Context,
	payload json.RawMessage,
	encrypt bool,
) (*proofDomain.ProofRecord, error) {
	start := time.Now()
	record, err := p.next.CreateDailyProof(ctx, payload, encrypt)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "proofs", "proof_create", status)
	p.metrics.RecordDuration(ctx, "proofs", "proof_create", time.Since(start), status)

	return record, err
}

// VerifyDailyProof records metrics for proof verification.
func (p *proofUseCaseWithMetrics) VerifyDailyProof(
	ctx context.Context,
	cid, expectedDate string,
) (*proofDomain.VerificationResult, error) {
	start := time.Now()
	result, err := p.next.VerifyDailyProof(ctx, cid, expectedDate)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "proofs", "proof_verify", status)
	p.metrics.RecordDuration(ctx, "proofs", "proof_verify", time.Since(start), status)

	return result, err
}

// ListRecords records metrics for record listing.
func (p *proofUseCaseWithMetrics) ListRecords(
	ctx context.Context,
	date string,
	offset, limit int,
) ([]*proofDomain.ProofRecord, error) {
	start := time.Now()
	records, err := p.next.ListRecords(ctx, date, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "proofs", "proof_list", status)
	p.metrics.RecordDuration(ctx, "proofs", "proof_list", time.Since(start), status)

	return records, err
}

// DecryptProof records metrics for privileged decryption.
func (p *proofUseCaseWithMetrics) DecryptProof(
	ctx context.Context,
	cid string,
) (json.RawMessage, error) {
	start := time.Now()
	payload, err := p.next.DecryptProof(ctx, cid)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "proofs", "proof_decrypt", status)
	p.metrics.RecordDuration(ctx, "proofs", "proof_decrypt", time.Since(start), status)

	return payload, err
}

// DecryptionGuide delegates without instrumentation.
func (p *proofUseCaseWithMetrics) DecryptionGuide() *proofDomain.DecryptionGuide {
	return p.next.DecryptionGuide()
}

// KeyInfo delegates without instrumentation.
func (p *proofUseCaseWithMetrics) KeyInfo() cryptoDomain.KeyInfo {
	return p.next.KeyInfo()
}

// RotateKey records metrics for key rotation.
func (p *proofUseCaseWithMetrics) RotateKey(ctx context.Context) (*cryptoDomain.RotationInfo, error) {
	start := time.Now()
	rotation, err := p.next.RotateKey(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "proofs", "key_rotate", status)
	p.metrics.RecordDuration(ctx, "proofs", "key_rotate", time.Since(start), status)

	return rotation, err
}
