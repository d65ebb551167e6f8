package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/allisson/dataproof/internal/errors"
	explorerDomain "github.com/allisson/dataproof/internal/explorer/domain"
)

// Function selectors of the subscription-manager contract views.
const (
	selectorIsActive          = "0x9f8a13d7" // isActive(address)
	selectorSubscriptionUntil = "0x1684d48c" // subscriptionUntil(address)
)

// BscScanConfig holds explorer client settings.
type BscScanConfig struct {
	BaseURL         string
	APIKey          string
	ContractAddress string
	MaxRetries      int
	RetryBaseDelay  time.Duration
	RequestTimeout  time.Duration
}

// BscScanClient reads chain state through a BscScan-compatible API.
//
// The API reports most failures inside HTTP-200 JSON bodies (status != "1",
// rate-limit notices in the result text), so retrying happens after decoding
// rather than at the transport layer. Transient failures back off
// exponentially: delay = base * 2^attempt, with 1 + MaxRetries attempts in
// total.
type BscScanClient struct {
	http   *http.Client
	cfg    BscScanConfig
	logger *slog.Logger
}

// NewBscScanClient creates an explorer client from the given configuration.
func NewBscScanClient(cfg BscScanConfig, logger *slog.Logger) *BscScanClient {
	return &BscScanClient{
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		cfg:    cfg,
		logger: logger,
	}
}

// apiResponse is the common BscScan envelope. Proxy actions omit status and
// message and answer JSON-RPC style.
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SubscriptionStatus reads the subscription-manager contract for an account.
func (c *BscScanClient) SubscriptionStatus(
	ctx context.Context,
	address string,
) (*explorerDomain.SubscriptionStatus, error) {
	addr := strings.ToLower(address)
	arg := padAddress(addr)

	activeHex, err := c.ethCall(ctx, selectorIsActive+arg)
	if err != nil {
		return nil, err
	}

	untilHex, err := c.ethCall(ctx, selectorSubscriptionUntil+arg)
	if err != nil {
		return nil, err
	}

	status := &explorerDomain.SubscriptionStatus{
		Address:   addr,
		Active:    parseBool(activeHex),
		CheckedAt: time.Now().UTC(),
	}
	if until := parseBigInt(untilHex); until != nil && until.Sign() > 0 && until.IsInt64() {
		status.ExpiresAt = time.Unix(until.Int64(), 0).UTC()
	}

	return status, nil
}

// TransactionStatus returns the receipt status of a transaction.
func (c *BscScanClient) TransactionStatus(
	ctx context.Context,
	hash string,
) (*explorerDomain.TxStatus, error) {
	params := url.Values{}
	params.Set("module", "transaction")
	params.Set("action", "gettxreceiptstatus")
	params.Set("txhash", hash)

	result, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}

	var receipt struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(result, &receipt); err != nil {
		return nil, fmt.Errorf("failed to decode receipt status: %w", err)
	}

	status := &explorerDomain.TxStatus{
		Hash:      hash,
		CheckedAt: time.Now().UTC(),
	}
	switch receipt.Status {
	case "1":
		status.Status = explorerDomain.TxStatusSuccess
	case "0":
		status.Status = explorerDomain.TxStatusFailed
	default:
		status.Status = explorerDomain.TxStatusPending
	}

	return status, nil
}

// AccountBalance returns an account's native-token balance.
func (c *BscScanClient) AccountBalance(
	ctx context.Context,
	address string,
) (*explorerDomain.Balance, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "balance")
	params.Set("address", address)
	params.Set("tag", "latest")

	result, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}

	var wei string
	if err := json.Unmarshal(result, &wei); err != nil {
		return nil, fmt.Errorf("failed to decode balance: %w", err)
	}

	return &explorerDomain.Balance{
		Address:   strings.ToLower(address),
		Wei:       wei,
		CheckedAt: time.Now().UTC(),
	}, nil
}

// Ping verifies the explorer API is reachable.
func (c *BscScanClient) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_blockNumber")

	_, err := c.call(ctx, params)
	return err
}

// ethCall performs a read-only contract call against the subscription manager.
func (c *BscScanClient) ethCall(ctx context.Context, data string) (string, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_call")
	params.Set("to", c.cfg.ContractAddress)
	params.Set("data", data)
	params.Set("tag", "latest")

	result, err := c.call(ctx, params)
	if err != nil {
		return "", err
	}

	var hexResult string
	if err := json.Unmarshal(result, &hexResult); err != nil {
		return "", fmt.Errorf("failed to decode eth_call result: %w", err)
	}
	return hexResult, nil
}

// call performs one explorer query with bounded retries.
func (c *BscScanClient) call(ctx context.Context, params url.Values) (json.RawMessage, error) {
	params.Set("apikey", c.cfg.APIKey)
	endpoint := c.cfg.BaseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.RetryBaseDelay * (1 << (attempt - 1))
			c.logger.Debug("retrying explorer request",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, retryable, err := c.doOnce(ctx, endpoint)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, apperrors.Wrap(explorerDomain.ErrExplorerUnavailable, lastErr.Error())
}

// doOnce performs a single request. The second return reports whether the
// failure is worth retrying.
func (c *BscScanClient) doOnce(ctx context.Context, endpoint string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build explorer request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("explorer status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, apperrors.Wrapf(
			explorerDomain.ErrExplorerRejected, "status %d", resp.StatusCode,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, false, fmt.Errorf("failed to decode explorer response: %w", err)
	}

	if decoded.Error != nil {
		return nil, false, apperrors.Wrap(explorerDomain.ErrExplorerRejected, decoded.Error.Message)
	}

	// Account-style responses carry status/message; proxy responses don't.
	if decoded.Status != "" && decoded.Status != "1" {
		if isRateLimited(decoded) {
			return nil, true, fmt.Errorf("explorer rate limited: %s", decoded.Message)
		}
		return nil, false, apperrors.Wrapf(
			explorerDomain.ErrExplorerRejected, "%s", decoded.Message,
		)
	}

	return decoded.Result, false, nil
}

// isRateLimited detects the explorer's in-band rate-limit notice.
func isRateLimited(resp apiResponse) bool {
	if strings.Contains(strings.ToLower(resp.Message), "rate limit") {
		return true
	}
	var text string
	if err := json.Unmarshal(resp.Result, &text); err == nil {
		return strings.Contains(strings.ToLower(text), "rate limit")
	}
	return false
}

// padAddress left-pads a 0x address to a 32-byte call argument. Input longer
// than a word keeps its rightmost 64 hex chars, matching ABI word semantics.
func padAddress(address string) string {
	hex := strings.TrimPrefix(strings.ToLower(address), "0x")
	if len(hex) >= 64 {
		return hex[len(hex)-64:]
	}
	return strings.Repeat("0", 64-len(hex)) + hex
}

// parseBool interprets a 32-byte hex return value as a boolean.
func parseBool(hexResult string) bool {
	n := parseBigInt(hexResult)
	return n != nil && n.Sign() > 0
}

// parseBigInt interprets a hex return value as an unsigned integer.
func parseBigInt(hexResult string) *big.Int {
	hex := strings.TrimPrefix(hexResult, "0x")
	if hex == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return nil
	}
	return n
}
