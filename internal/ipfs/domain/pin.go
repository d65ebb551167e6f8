// Package domain defines the types exchanged with the content-addressed
// pinning store.
package domain

import "time"

// PinResult is the outcome of pinning content.
type PinResult struct {
	// CID is the content identifier assigned by the store (CIDv1 for new pins).
	CID string `json:"cid"`

	// PinSize is the pinned content size in bytes.
	PinSize int64 `json:"pin_size"`

	// Timestamp is when the store registered the pin.
	Timestamp time.Time `json:"timestamp"`
}

// PinnedFile describes one entry of the store's pin listing.
type PinnedFile struct {
	CID        string    `json:"cid"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	DatePinned time.Time `json:"date_pinned"`
}

// PinMetadata is the name and key/value labels attached to a pin.
type PinMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues,omitempty"`
}
