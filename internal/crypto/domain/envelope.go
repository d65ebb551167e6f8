package domain

// Envelope is the wire form of an encrypted payload.
//
// Field names are part of the stored-document contract: envelopes already
// pinned to the content-addressed store were written with exactly these keys
// and must keep decrypting across releases.
type Envelope struct {
	// EncryptedData is the base64-encoded AEAD ciphertext (tag included).
	EncryptedData string `json:"encrypted_data"`

	// Nonce is the base64-encoded 96-bit nonce used for this encryption.
	Nonce string `json:"nonce"`

	// Algorithm names the AEAD cipher, e.g. "AES-256-GCM".
	Algorithm Algorithm `json:"algorithm"`

	// DataHash is the hex SHA-256 digest of the plaintext, checked after
	// decryption as defense in depth on top of AEAD authentication.
	DataHash string `json:"data_hash"`

	// EncryptionMetadata carries non-secret context about the encryption.
	EncryptionMetadata EncryptionMetadata `json:"encryption_metadata"`
}

// EncryptionMetadata is the non-secret context stored alongside ciphertext.
type EncryptionMetadata struct {
	// EncryptedAt is an RFC 3339 timestamp of when the envelope was produced.
	EncryptedAt string `json:"encrypted_at"`

	// Version is the envelope format version.
	Version string `json:"version"`

	// DataType labels the payload, e.g. "daily_summary".
	DataType string `json:"data_type"`
}
