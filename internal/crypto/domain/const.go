package domain

// Algorithm represents the AEAD algorithm used for envelope encryption.
//
// Values use the wire spelling carried inside stored envelopes, so renaming
// a constant is a breaking change for every document already pinned.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM combines AES encryption with GMAC authentication. It uses a
	// 256-bit key and performs well on hardware with AES-NI acceleration.
	AESGCM Algorithm = "AES-256-GCM"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305
	// MAC. It's designed for platforms without AES hardware acceleration and
	// runs in constant time.
	ChaCha20 Algorithm = "ChaCha20-Poly1305"
)

// Valid reports whether the algorithm is one of the supported AEAD ciphers.
func (a Algorithm) Valid() bool {
	return a == AESGCM || a == ChaCha20
}

const (
	// KeySize is the required key length in bytes for all supported algorithms.
	KeySize = 32

	// NonceSize is the AEAD nonce length in bytes (96 bits).
	NonceSize = 12

	// EnvelopeVersion is written into every envelope's metadata.
	EnvelopeVersion = "1.0"

	// DataTypeDailySummary marks envelopes produced by the daily proof flow.
	DataTypeDailySummary = "daily_summary"
)

// DocumentKind discriminates the two stored document shapes.
type DocumentKind string

const (
	// KindEncrypted marks a document whose payload is an encryption envelope.
	KindEncrypted DocumentKind = "encrypted"

	// KindPlain marks a document stored without encryption.
	KindPlain DocumentKind = "plain"
)
