package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	gocid "github.com/ipfs/go-cid"

	apperrors "github.com/allisson/dataproof/internal/errors"
	ipfsDomain "github.com/allisson/dataproof/internal/ipfs/domain"
)

// ClientConfig holds pinning client settings.
type ClientConfig struct {
	BaseURL        string
	GatewayURL     string
	JWT            string
	APIKey         string
	SecretAPIKey   string
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	RequestTimeout time.Duration
}

// PinataClient talks to a Pinata-compatible pinning API.
//
// Transient failures (transport errors, 5xx) are retried with exponential
// backoff: delay = base * 2^attempt, capped at the configured maximum. A
// request makes exactly 1 + MaxRetries attempts before giving up. 4xx
// responses are returned immediately because retrying a rejected request
// cannot succeed.
type PinataClient struct {
	retrying *retryablehttp.Client
	plain    *http.Client
	cfg      ClientConfig
	logger   *slog.Logger
}

// NewPinataClient creates a pinning client from the given configuration.
func NewPinataClient(cfg ClientConfig, logger *slog.Logger) *PinataClient {
	retrying := retryablehttp.NewClient()
	retrying.RetryMax = cfg.MaxRetries
	retrying.RetryWaitMin = cfg.RetryBaseDelay
	retrying.RetryWaitMax = cfg.RetryMaxDelay
	retrying.Backoff = retryablehttp.DefaultBackoff
	retrying.CheckRetry = storeRetryPolicy
	retrying.HTTPClient.Timeout = cfg.RequestTimeout
	retrying.Logger = nil

	return &PinataClient{
		retrying: retrying,
		plain:    &http.Client{Timeout: cfg.RequestTimeout},
		cfg:      cfg,
		logger:   logger,
	}
}

// storeRetryPolicy retries transport errors and 5xx responses only.
func storeRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return true, nil
	}
	return false, nil
}

// pinJSONRequest is the Pinata pinJSONToIPFS payload.
type pinJSONRequest struct {
	PinataContent  any            `json:"pinataContent"`
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
	PinataOptions  pinataOptions  `json:"pinataOptions"`
}

type pinataMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues,omitempty"`
}

type pinataOptions struct {
	CIDVersion int `json:"cidVersion"`
}

// pinJSONResponse is the Pinata pinJSONToIPFS response.
type pinJSONResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// pinByHashRequest is the Pinata pinByHash payload.
type pinByHashRequest struct {
	HashToPin      string         `json:"hashToPin"`
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
}

// pinListResponse is the Pinata pinList response.
type pinListResponse struct {
	Rows []struct {
		IpfsPinHash string `json:"ipfs_pin_hash"`
		Size        int64  `json:"size"`
		DatePinned  string `json:"date_pinned"`
		Metadata    struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"rows"`
}

// PinJSON uploads a JSON document and pins it, returning its CIDv1.
func (c *PinataClient) PinJSON(
	ctx context.Context,
	content any,
	metadata ipfsDomain.PinMetadata,
) (*ipfsDomain.PinResult, error) {
	payload := pinJSONRequest{
		PinataContent: content,
		PinataMetadata: pinataMetadata{
			Name:      metadata.Name,
			KeyValues: metadata.KeyValues,
		},
		PinataOptions: pinataOptions{CIDVersion: 1},
	}

	body, err := c.doJSON(ctx, http.MethodPost, c.cfg.BaseURL+"/pinning/pinJSONToIPFS", payload)
	if err != nil {
		return nil, err
	}

	var resp pinJSONResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}

	result := &ipfsDomain.PinResult{
		CID:     resp.IpfsHash,
		PinSize: resp.PinSize,
	}
	if ts, err := time.Parse(time.RFC3339, resp.Timestamp); err == nil {
		result.Timestamp = ts
	}

	c.logger.Info("content pinned",
		slog.String("cid", result.CID),
		slog.Int64("pin_size", result.PinSize),
	)

	return result, nil
}

// FetchByCID retrieves pinned content through the gateway.
func (c *PinataClient) FetchByCID(ctx context.Context, cid string) ([]byte, error) {
	if _, err := gocid.Decode(cid); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid cid %q", cid)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.GatewayURL(cid), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}

	resp, err := c.retrying.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(ipfsDomain.ErrStoreUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ipfsDomain.ErrContentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(ipfsDomain.ErrStoreUnavailable, err.Error())
	}
	return body, nil
}

// Pin pins already-stored content by its CID.
func (c *PinataClient) Pin(
	ctx context.Context,
	cid string,
	metadata ipfsDomain.PinMetadata,
) (*ipfsDomain.PinResult, error) {
	if _, err := gocid.Decode(cid); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid cid %q", cid)
	}

	payload := pinByHashRequest{
		HashToPin: cid,
		PinataMetadata: pinataMetadata{
			Name:      metadata.Name,
			KeyValues: metadata.KeyValues,
		},
	}

	if _, err := c.doJSON(ctx, http.MethodPost, c.cfg.BaseURL+"/pinning/pinByHash", payload); err != nil {
		return nil, err
	}

	return &ipfsDomain.PinResult{CID: cid}, nil
}

// TestAuthentication probes the store credentials. Never retried.
func (c *PinataClient) TestAuthentication(ctx context.Context) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.cfg.BaseURL+"/data/testAuthentication", nil,
	)
	if err != nil {
		return fmt.Errorf("failed to build auth probe request: %w", err)
	}
	c.setAuthHeaders(req.Header)

	resp, err := c.plain.Do(req)
	if err != nil {
		return apperrors.Wrap(ipfsDomain.ErrStoreUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ipfsDomain.ErrStoreAuthentication
	default:
		return apperrors.Wrapf(ipfsDomain.ErrStoreUnavailable, "auth probe status %d", resp.StatusCode)
	}
}

// ListPins returns a page of currently pinned files.
func (c *PinataClient) ListPins(ctx context.Context, limit, offset int) ([]ipfsDomain.PinnedFile, error) {
	url := c.cfg.BaseURL + "/data/pinList?status=pinned" +
		"&pageLimit=" + strconv.Itoa(limit) +
		"&pageOffset=" + strconv.Itoa(offset)

	body, err := c.doJSON(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var resp pinListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode pin list: %w", err)
	}

	files := make([]ipfsDomain.PinnedFile, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		file := ipfsDomain.PinnedFile{
			CID:  row.IpfsPinHash,
			Name: row.Metadata.Name,
			Size: row.Size,
		}
		if ts, err := time.Parse(time.RFC3339, row.DatePinned); err == nil {
			file.DatePinned = ts
		}
		files = append(files, file)
	}
	return files, nil
}

// Unpin removes a pin.
func (c *PinataClient) Unpin(ctx context.Context, cid string) error {
	if _, err := gocid.Decode(cid); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid cid %q", cid)
	}

	if _, err := c.doJSON(ctx, http.MethodDelete, c.cfg.BaseURL+"/pinning/unpin/"+cid, nil); err != nil {
		return err
	}

	c.logger.Info("content unpinned", slog.String("cid", cid))
	return nil
}

// GatewayURL returns the public gateway URL for a CID.
func (c *PinataClient) GatewayURL(cid string) string {
	return c.cfg.GatewayURL + "/ipfs/" + cid
}

// doJSON performs a retried request with JSON encoding and auth headers, and
// returns the raw response body of a 2xx response.
func (c *PinataClient) doJSON(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = encoded
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req.Header)

	resp, err := c.retrying.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(ipfsDomain.ErrStoreUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.responseError(resp)
	}

	return io.ReadAll(resp.Body)
}

// responseError maps a non-2xx store response to a domain error.
func (c *PinataClient) responseError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ipfsDomain.ErrStoreAuthentication
	case resp.StatusCode == http.StatusNotFound:
		return ipfsDomain.ErrContentNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return apperrors.Wrapf(ipfsDomain.ErrStoreUnavailable, "status %d", resp.StatusCode)
	default:
		return apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"store rejected request with status %d: %s",
			resp.StatusCode,
			string(snippet),
		)
	}
}

// setAuthHeaders applies JWT bearer auth when configured, falling back to the
// legacy key pair.
func (c *PinataClient) setAuthHeaders(h http.Header) {
	if c.cfg.JWT != "" {
		h.Set("Authorization", "Bearer "+c.cfg.JWT)
		return
	}
	h.Set("pinata_api_key", c.cfg.APIKey)
	h.Set("pinata_secret_api_key", c.cfg.SecretAPIKey)
}
