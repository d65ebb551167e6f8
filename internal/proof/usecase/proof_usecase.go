package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	cryptoService "github.com/allisson/dataproof/internal/crypto/service"
	apperrors "github.com/allisson/dataproof/internal/errors"
	ipfsDomain "github.com/allisson/dataproof/internal/ipfs/domain"
	ipfsService "github.com/allisson/dataproof/internal/ipfs/service"
	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

// pinNamePrefix is the human-readable name under which daily documents are
// pinned; the covered date is appended.
const pinNamePrefix = "Daily Health Summary - "

// proofUseCase implements the ProofUseCase interface.
type proofUseCase struct {
	keyProvider cryptoService.KeyProvider
	envelope    cryptoService.EnvelopeService
	store       ipfsService.Client
	repo        ProofRepository
	logger      *slog.Logger
}

// CreateDailyProof builds the stored document, pins it and appends a record.
func (p *proofUseCase) CreateDailyProof(
	ctx context.Context,
	payload json.RawMessage,
	encrypt bool,
) (*proofDomain.ProofRecord, error) {
	now := time.Now().UTC()
	date := payloadDate(payload)
	if date == "" {
		date = now.Format("2006-01-02")
	}

	document := &proofDomain.StoredDocument{
		ProofMetadata: &proofDomain.ProofMetadata{
			Name: pinNamePrefix + date,
			Date: date,
		},
	}
	record := &proofDomain.ProofRecord{
		ID:        newRecordID(),
		Date:      date,
		CreatedAt: now,
	}

	if encrypt {
		enhanced := proofDomain.EnhancedDocument{
			Summary:     payload,
			EncryptedAt: now.Format(time.RFC3339),
			Version:     cryptoDomain.EnvelopeVersion,
			DataType:    cryptoDomain.DataTypeDailySummary,
		}
		envelope, err := p.envelope.Encrypt(ctx, enhanced)
		if err != nil {
			return nil, err
		}

		document.Kind = cryptoDomain.KindEncrypted
		document.EncryptedData = envelope.EncryptedData
		document.Nonce = envelope.Nonce
		document.Algorithm = string(envelope.Algorithm)
		document.DataHash = envelope.DataHash
		document.EncryptionMetadata = &envelope.EncryptionMetadata

		info := p.keyProvider.Info()
		record.Encrypted = true
		record.Nonce = envelope.Nonce
		record.DataHash = envelope.DataHash
		record.Algorithm = string(envelope.Algorithm)
		record.KeySource = info.Source
		record.KMSEnabled = info.KMSEnabled
	} else {
		document.Kind = cryptoDomain.KindPlain
		document.DailyData = payload
	}

	pinResult, err := p.store.PinJSON(ctx, document, ipfsDomain.PinMetadata{
		Name: document.ProofMetadata.Name,
		KeyValues: map[string]string{
			"date": date,
			"kind": string(document.Kind),
		},
	})
	if err != nil {
		return nil, err
	}

	record.CID = pinResult.CID
	record.URL = p.store.GatewayURL(pinResult.CID)
	record.SizeBytes = pinResult.PinSize

	// The record is appended only after the pin succeeded, so the index never
	// references content that was not stored.
	if err := p.repo.Append(ctx, record); err != nil {
		return nil, err
	}

	p.logger.Info("daily proof created",
		slog.String("record_id", record.ID),
		slog.String("cid", record.CID),
		slog.String("date", record.Date),
		slog.Bool("encrypted", record.Encrypted),
	)

	return record, nil
}

// VerifyDailyProof fetches and authenticates a pinned document.
func (p *proofUseCase) VerifyDailyProof(
	ctx context.Context,
	cid, expectedDate string,
) (*proofDomain.VerificationResult, error) {
	raw, err := p.store.FetchByCID(ctx, cid)
	if err != nil {
		return nil, err
	}

	var document proofDomain.StoredDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, apperrors.Wrap(proofDomain.ErrDocumentMalformed, err.Error())
	}

	result := &proofDomain.VerificationResult{
		CID:        cid,
		VerifiedAt: time.Now().UTC(),
	}

	var payload json.RawMessage
	if document.IsEncrypted() {
		plaintext, err := p.envelope.Decrypt(ctx, document.Envelope())
		if err != nil {
			return nil, err
		}

		result.Encrypted = true
		result.Algorithm = document.Algorithm

		var enhanced proofDomain.EnhancedDocument
		if err := json.Unmarshal(plaintext, &enhanced); err != nil {
			return nil, apperrors.Wrap(proofDomain.ErrDocumentMalformed, err.Error())
		}
		// Envelopes written before the enhanced wrapper hold the payload
		// directly.
		if len(enhanced.Summary) > 0 {
			payload = enhanced.Summary
		} else {
			payload = plaintext
		}
	} else {
		if len(document.DailyData) > 0 {
			payload = document.DailyData
		} else {
			payload = raw
		}
	}

	result.DataVerified = true
	result.Payload = payload

	if actual := payloadDate(payload); expectedDate != "" && actual != "" && actual != expectedDate {
		result.DateMismatch = &proofDomain.DateMismatch{
			Expected: expectedDate,
			Actual:   actual,
		}
	}

	return result, nil
}

// ListRecords returns records in insertion order.
func (p *proofUseCase) ListRecords(
	ctx context.Context,
	date string,
	offset, limit int,
) ([]*proofDomain.ProofRecord, error) {
	return p.repo.List(ctx, date, offset, limit)
}

// DecryptProof fetches an encrypted document and returns its plaintext.
func (p *proofUseCase) DecryptProof(ctx context.Context, cid string) (json.RawMessage, error) {
	raw, err := p.store.FetchByCID(ctx, cid)
	if err != nil {
		return nil, err
	}

	var document proofDomain.StoredDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, apperrors.Wrap(proofDomain.ErrDocumentMalformed, err.Error())
	}
	if !document.IsEncrypted() {
		return nil, proofDomain.ErrNotEncrypted
	}

	plaintext, err := p.envelope.Decrypt(ctx, document.Envelope())
	if err != nil {
		return nil, err
	}

	return json.RawMessage(plaintext), nil
}

// DecryptionGuide describes how to decrypt pinned envelopes without this
// service.
func (p *proofUseCase) DecryptionGuide() *proofDomain.DecryptionGuide {
	info := p.keyProvider.Info()

	return &proofDomain.DecryptionGuide{
		Algorithm:      string(p.envelope.Algorithm()),
		KeySource:      string(info.Source),
		KMSEnabled:     info.KMSEnabled,
		KeySizeBytes:   cryptoDomain.KeySize,
		NonceSizeBytes: cryptoDomain.NonceSize,
		GatewayURL:     p.store.GatewayURL("{cid}"),
		Steps: []string{
			"fetch the document from the gateway URL",
			"base64-decode the encrypted_data and nonce fields",
			"obtain the 32-byte data key (unwrap via the KMS keeper or the local master key)",
			fmt.Sprintf("open the ciphertext with %s using the nonce and no associated data", p.envelope.Algorithm()),
			"recompute the SHA-256 hex digest of the plaintext and compare it with data_hash",
		},
	}
}

// KeyInfo returns the non-secret description of the active key.
func (p *proofUseCase) KeyInfo() cryptoDomain.KeyInfo {
	info := p.keyProvider.Info()
	info.Algorithm = p.envelope.Algorithm()
	return info
}

// RotateKey activates a new encryption key for future proofs.
func (p *proofUseCase) RotateKey(ctx context.Context) (*cryptoDomain.RotationInfo, error) {
	rotation, err := p.keyProvider.Rotate(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Info("encryption key rotated",
		slog.String("source", string(rotation.Source)),
	)

	return rotation, nil
}

// payloadDate extracts a well-formed date field from a JSON payload, returning
// empty when absent or malformed.
func payloadDate(payload []byte) string {
	var fields struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	if _, err := time.Parse("2006-01-02", fields.Date); err != nil {
		return ""
	}
	return fields.Date
}

// newRecordID generates a time-ordered unique record identifier.
func newRecordID() string {
	return "proof_" + uuid.Must(uuid.NewV7()).String()
}

// NewProofUseCase creates the proof pipeline use case.
func NewProofUseCase(
	keyProvider cryptoService.KeyProvider,
	envelope cryptoService.EnvelopeService,
	store ipfsService.Client,
	repo ProofRepository,
	logger *slog.Logger,
) ProofUseCase {
	return &proofUseCase{
		keyProvider: keyProvider,
		envelope:    envelope,
		store:       store,
		repo:        repo,
		logger:      logger,
	}
}
