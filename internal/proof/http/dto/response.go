package dto

import (
	"encoding/json"
	"time"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

// ProofRecordResponse is the API representation of a proof record.
type ProofRecordResponse struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	CID        string    `json:"cid"`
	URL        string    `json:"url"`
	Encrypted  bool      `json:"encrypted"`
	Nonce      string    `json:"nonce,omitempty"`
	DataHash   string    `json:"data_hash,omitempty"`
	Algorithm  string    `json:"algorithm,omitempty"`
	SizeBytes  int64     `json:"size_bytes"`
	KeySource  string    `json:"key_source,omitempty"`
	KMSEnabled bool      `json:"kms_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapRecordToResponse converts a domain record to a response.
func MapRecordToResponse(record *proofDomain.ProofRecord) ProofRecordResponse {
	return ProofRecordResponse{
		ID:         record.ID,
		Date:       record.Date,
		CID:        record.CID,
		URL:        record.URL,
		Encrypted:  record.Encrypted,
		Nonce:      record.Nonce,
		DataHash:   record.DataHash,
		Algorithm:  record.Algorithm,
		SizeBytes:  record.SizeBytes,
		KeySource:  string(record.KeySource),
		KMSEnabled: record.KMSEnabled,
		CreatedAt:  record.CreatedAt,
	}
}

// ListProofsResponse represents a paginated list of proof records.
type ListProofsResponse struct {
	Data []ProofRecordResponse `json:"data"`
}

// MapRecordsToListResponse converts a slice of domain records to a list
// response.
func MapRecordsToListResponse(records []*proofDomain.ProofRecord) ListProofsResponse {
	data := make([]ProofRecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, MapRecordToResponse(record))
	}

	return ListProofsResponse{
		Data: data,
	}
}

// DecryptProofResponse carries the recovered envelope plaintext.
type DecryptProofResponse struct {
	CID       string          `json:"cid"`
	Decrypted json.RawMessage `json:"decrypted"`
}

// RotateKeyResponse is the API representation of a key rotation.
type RotateKeyResponse struct {
	Source          string    `json:"source"`
	WrappedKeyB64   string    `json:"wrapped_key_b64,omitempty"`
	PlaintextKeyB64 string    `json:"plaintext_key_b64,omitempty"`
	RotatedAt       time.Time `json:"rotated_at"`
}

// MapRotationToResponse converts rotation info to a response.
func MapRotationToResponse(rotation *cryptoDomain.RotationInfo, wrappedB64 string) RotateKeyResponse {
	return RotateKeyResponse{
		Source:          string(rotation.Source),
		WrappedKeyB64:   wrappedB64,
		PlaintextKeyB64: rotation.PlaintextKeyB64,
		RotatedAt:       rotation.RotatedAt,
	}
}
