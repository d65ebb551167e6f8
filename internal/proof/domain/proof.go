// Package domain defines the core models of the proof pipeline. A proof is a
// daily payload, optionally sealed in an encryption envelope, pinned to a
// content-addressed store and tracked in an append-only record index.
package domain

import (
	"encoding/json"
	"time"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
)

// ProofRecord tracks one pinned proof. Records are created only after a
// successful upload and are never mutated or deleted afterwards.
type ProofRecord struct {
	// ID is the unique record identifier ("proof_" + UUIDv7).
	ID string `json:"id"`
	// Date is the calendar date the proof covers, in YYYY-MM-DD form.
	Date string `json:"date"`
	// CID is the content identifier returned by the pinning store.
	CID string `json:"cid"`
	// URL is the public gateway URL for the pinned document.
	URL string `json:"url"`
	// Encrypted reports whether the pinned document is an encryption envelope.
	Encrypted bool `json:"encrypted"`
	// Nonce is the base64 AEAD nonce; empty for plain documents.
	Nonce string `json:"nonce,omitempty"`
	// DataHash is the hex SHA-256 digest of the envelope plaintext; empty for
	// plain documents.
	DataHash string `json:"data_hash,omitempty"`
	// Algorithm names the AEAD cipher; empty for plain documents.
	Algorithm string `json:"algorithm,omitempty"`
	// SizeBytes is the pinned size reported by the store.
	SizeBytes int64 `json:"size_bytes"`
	// KeySource reports where the encryption key came from at create time.
	KeySource cryptoDomain.KeySource `json:"key_source,omitempty"`
	// KMSEnabled reports whether the key was wrapped by a KMS keeper.
	KMSEnabled bool `json:"kms_enabled"`
	// CreatedAt is the UTC timestamp the record was appended.
	CreatedAt time.Time `json:"created_at"`
}

// ProofMetadata travels inside the pinned document alongside the payload or
// envelope.
type ProofMetadata struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// StoredDocument is the wire shape of a pinned proof document. The kind
// discriminator is written at create time; documents pinned before the
// discriminator existed carry only the envelope or payload fields.
type StoredDocument struct {
	Kind cryptoDomain.DocumentKind `json:"kind,omitempty"`

	// Envelope fields, present when the document is encrypted.
	EncryptedData      string                           `json:"encrypted_data,omitempty"`
	Nonce              string                           `json:"nonce,omitempty"`
	Algorithm          string                           `json:"algorithm,omitempty"`
	DataHash           string                           `json:"data_hash,omitempty"`
	EncryptionMetadata *cryptoDomain.EncryptionMetadata `json:"encryption_metadata,omitempty"`

	// DailyData carries the payload of a plain document.
	DailyData json.RawMessage `json:"daily_data,omitempty"`

	ProofMetadata *ProofMetadata `json:"proof_metadata,omitempty"`
}

// IsEncrypted reports whether the document is an encryption envelope. The
// explicit kind wins; documents without one fall back to field presence.
func (d *StoredDocument) IsEncrypted() bool {
	switch d.Kind {
	case cryptoDomain.KindEncrypted:
		return true
	case cryptoDomain.KindPlain:
		return false
	}
	return d.EncryptedData != "" && d.Nonce != ""
}

// Envelope converts the document's envelope fields into a decryptable
// envelope.
func (d *StoredDocument) Envelope() *cryptoDomain.Envelope {
	envelope := &cryptoDomain.Envelope{
		EncryptedData: d.EncryptedData,
		Nonce:         d.Nonce,
		Algorithm:     cryptoDomain.Algorithm(d.Algorithm),
		DataHash:      d.DataHash,
	}
	if d.EncryptionMetadata != nil {
		envelope.EncryptionMetadata = *d.EncryptionMetadata
	}

	return envelope
}

// EnhancedDocument is the envelope plaintext: the caller's payload wrapped
// with encryption provenance.
type EnhancedDocument struct {
	Summary     json.RawMessage `json:"summary"`
	EncryptedAt string          `json:"encrypted_at"`
	Version     string          `json:"version"`
	DataType    string          `json:"data_type"`
}

// DateMismatch annotates a verification whose recovered payload carries a
// different date than the caller expected.
type DateMismatch struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// VerificationResult is the outcome of verifying a pinned proof. A date
// mismatch does not fail verification; authenticity and business-date are
// independent concerns.
type VerificationResult struct {
	CID          string          `json:"cid"`
	Encrypted    bool            `json:"encrypted"`
	DataVerified bool            `json:"data_verified"`
	Algorithm    string          `json:"algorithm,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	DateMismatch *DateMismatch   `json:"date_mismatch,omitempty"`
	VerifiedAt   time.Time       `json:"verified_at"`
}

// DecryptionGuide documents how to independently decrypt and verify pinned
// envelopes without this service.
type DecryptionGuide struct {
	Algorithm      string   `json:"algorithm"`
	KeySource      string   `json:"key_source"`
	KMSEnabled     bool     `json:"kms_enabled"`
	KeySizeBytes   int      `json:"key_size_bytes"`
	NonceSizeBytes int      `json:"nonce_size_bytes"`
	GatewayURL     string   `json:"gateway_url"`
	Steps          []string `json:"steps"`
}
