// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"
	"time"

	cid "github.com/ipfs/go-cid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/dataproof/internal/errors"
)

var (
	// hexDigestRegex matches a lowercase or uppercase hex SHA-256 digest.
	hexDigestRegex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

	// ethAddressRegex matches a 0x-prefixed 20-byte hex address.
	ethAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

	// txHashRegex matches a 0x-prefixed 32-byte transaction hash.
	txHashRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Date validates a calendar date in YYYY-MM-DD form.
var Date = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	},
	validation.NewError("validation_date_format", "must be a date in YYYY-MM-DD format"),
)

// HexDigest validates a hex-encoded SHA-256 digest.
var HexDigest = validation.NewStringRuleWithError(
	func(s string) bool {
		return hexDigestRegex.MatchString(s)
	},
	validation.NewError("validation_hex_digest", "must be a 64-character hex SHA-256 digest"),
)

// CID validates a content identifier.
var CID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := cid.Decode(s)
		return err == nil
	},
	validation.NewError("validation_cid", "must be a valid content identifier"),
)

// EthAddress validates a 0x-prefixed account address.
var EthAddress = validation.NewStringRuleWithError(
	func(s string) bool {
		return ethAddressRegex.MatchString(s)
	},
	validation.NewError("validation_eth_address", "must be a 0x-prefixed 40-character hex address"),
)

// TxHash validates a 0x-prefixed transaction hash.
var TxHash = validation.NewStringRuleWithError(
	func(s string) bool {
		return txHashRegex.MatchString(s)
	},
	validation.NewError("validation_tx_hash", "must be a 0x-prefixed 64-character hex hash"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
