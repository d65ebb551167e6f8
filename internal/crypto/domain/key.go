package domain

import "time"

// KeySource identifies where the active encryption key came from.
//
// The source is recorded on every proof record so operators can tell which
// documents were written under a production-grade key and which were not.
type KeySource string

const (
	// SourceKMS means the key is wrapped by a cloud KMS keeper.
	SourceKMS KeySource = "kms"

	// SourceLocal means the key was wrapped under a master key supplied
	// through configuration.
	SourceLocal KeySource = "local"

	// SourceEphemeral means the key was generated at startup and exists only
	// in memory. Data encrypted under it is unrecoverable after restart.
	SourceEphemeral KeySource = "ephemeral"
)

// DataKey is a symmetric key together with its wrapped form.
//
// Plaintext is the raw 32-byte key material and must be zeroed when the key
// goes out of use. Wrapped is safe to persist or log in length only.
type DataKey struct {
	// Plaintext is the raw key material.
	Plaintext []byte

	// Wrapped is the key encrypted under the KMS keeper or local master key.
	// Empty for ephemeral keys, which are never persisted.
	Wrapped []byte

	// Source records which tier produced the key.
	Source KeySource

	// CreatedAt is when the key material was generated or unwrapped.
	CreatedAt time.Time
}

// Zero clears the plaintext key material.
func (k *DataKey) Zero() {
	Zero(k.Plaintext)
}

// KeyInfo is the non-secret view of the active key, safe to expose over HTTP.
type KeyInfo struct {
	Source     KeySource `json:"source"`
	Algorithm  Algorithm `json:"algorithm"`
	KMSEnabled bool      `json:"kms_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

// RotationInfo describes the outcome of a key rotation.
//
// WrappedKey lets the operator persist the new wrapped key; PlaintextKeyB64 is
// returned once for local-source providers so the key can be reapplied to
// configuration, mirroring the create-master-key command output.
type RotationInfo struct {
	Source          KeySource `json:"source"`
	WrappedKey      []byte    `json:"wrapped_key,omitempty"`
	PlaintextKeyB64 string    `json:"plaintext_key_b64,omitempty"`
	RotatedAt       time.Time `json:"rotated_at"`
}
