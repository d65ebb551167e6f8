// Package usecase implements the proof pipeline: composing the key provider,
// envelope encryption and the pinning store into create/verify/decrypt
// operations over an append-only record index.
package usecase

import (
	"context"
	"encoding/json"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

// ProofRepository defines persistence for the append-only record index.
type ProofRepository interface {
	// Append adds a record to the index. Records are never updated or removed.
	Append(ctx context.Context, record *proofDomain.ProofRecord) error

	// List returns records in insertion order. An empty date disables
	// filtering; a non-empty date matches records exactly.
	List(ctx context.Context, date string, offset, limit int) ([]*proofDomain.ProofRecord, error)
}

// ProofUseCase defines the proof pipeline business logic.
type ProofUseCase interface {
	// CreateDailyProof optionally encrypts the payload, pins the resulting
	// document and appends a record. The record exists iff the pin succeeded.
	CreateDailyProof(ctx context.Context, payload json.RawMessage, encrypt bool) (*proofDomain.ProofRecord, error)

	// VerifyDailyProof fetches a pinned document by CID, decrypts it when it
	// is an envelope and returns the recovered payload. A date mismatch
	// against expectedDate is annotated, not fatal.
	VerifyDailyProof(ctx context.Context, cid, expectedDate string) (*proofDomain.VerificationResult, error)

	// ListRecords returns proof records in insertion order.
	ListRecords(ctx context.Context, date string, offset, limit int) ([]*proofDomain.ProofRecord, error)

	// DecryptProof fetches an encrypted document and returns its plaintext.
	DecryptProof(ctx context.Context, cid string) (json.RawMessage, error)

	// DecryptionGuide describes how to decrypt pinned envelopes independently.
	DecryptionGuide() *proofDomain.DecryptionGuide

	// KeyInfo returns the non-secret description of the active key.
	KeyInfo() cryptoDomain.KeyInfo

	// RotateKey activates a new encryption key for future proofs.
	RotateKey(ctx context.Context) (*cryptoDomain.RotationInfo, error)
}
