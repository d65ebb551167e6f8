package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/dataproof/internal/errors"
	explorerDomain "github.com/allisson/dataproof/internal/explorer/domain"
)

const (
	testAddress  = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	testContract = "0x9c7920f113B27De6a57bbCF53D6111cbA5532498"
	testTxHash   = "0x29f2d9f1b1d5ab59e3e79a5a0e27f8c9d3b1a2c4e5f60718293a4b5c6d7e8f90"
)

func newTestExplorer(t *testing.T, handler http.Handler) (*BscScanClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewBscScanClient(BscScanConfig{
		BaseURL:         server.URL,
		APIKey:          "test-key",
		ContractAddress: testContract,
		MaxRetries:      2,
		RetryBaseDelay:  time.Millisecond,
		RequestTimeout:  time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return client, server
}

func TestBscScanClient_SubscriptionStatus(t *testing.T) {
	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "proxy", query.Get("module"))
		assert.Equal(t, "eth_call", query.Get("action"))
		assert.Equal(t, testContract, query.Get("to"))
		assert.Equal(t, "test-key", query.Get("apikey"))

		data := query.Get("data")
		wantArg := padAddress(testAddress)

		switch {
		case data == selectorIsActive+wantArg:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"0x%064x"}`, 1)
		case data == selectorSubscriptionUntil+wantArg:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"0x%064x"}`, expiry.Unix())
		default:
			t.Errorf("unexpected call data %q", data)
		}
	}))

	status, err := client.SubscriptionStatus(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", status.Address)
	assert.True(t, status.Active)
	assert.True(t, status.ExpiresAt.Equal(expiry))
	assert.False(t, status.CheckedAt.IsZero())
}

func TestBscScanClient_SubscriptionStatus_NeverSubscribed(t *testing.T) {
	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"0x%064x"}`, 0)
	}))

	status, err := client.SubscriptionStatus(context.Background(), testAddress)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.True(t, status.ExpiresAt.IsZero())
}

func TestBscScanClient_TransactionStatus(t *testing.T) {
	tests := []struct {
		name     string
		result   string
		expected explorerDomain.TxStatusValue
	}{
		{"success receipt", `{"status":"1"}`, explorerDomain.TxStatusSuccess},
		{"failed receipt", `{"status":"0"}`, explorerDomain.TxStatusFailed},
		{"missing receipt", `{"status":""}`, explorerDomain.TxStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				query := r.URL.Query()
				assert.Equal(t, "transaction", query.Get("module"))
				assert.Equal(t, "gettxreceiptstatus", query.Get("action"))
				assert.Equal(t, testTxHash, query.Get("txhash"))
				fmt.Fprintf(w, `{"status":"1","message":"OK","result":%s}`, tt.result)
			}))

			status, err := client.TransactionStatus(context.Background(), testTxHash)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status.Status)
			assert.Equal(t, testTxHash, status.Hash)
		})
	}
}

func TestBscScanClient_AccountBalance(t *testing.T) {
	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "account", query.Get("module"))
		assert.Equal(t, "balance", query.Get("action"))
		fmt.Fprint(w, `{"status":"1","message":"OK","result":"40891626854930000000000"}`)
	}))

	balance, err := client.AccountBalance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, "40891626854930000000000", balance.Wei)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", balance.Address)
}

func TestBscScanClient_RetriesRateLimit(t *testing.T) {
	var attempts atomic.Int32

	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			fmt.Fprint(w, `{"status":"0","message":"NOTOK","result":"Max rate limit reached"}`)
			return
		}
		fmt.Fprint(w, `{"status":"1","message":"OK","result":"12345"}`)
	}))

	balance, err := client.AccountBalance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, "12345", balance.Wei)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestBscScanClient_RetryBound(t *testing.T) {
	var attempts atomic.Int32

	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.AccountBalance(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, explorerDomain.ErrExplorerUnavailable))
	// MaxRetries of 2 means 3 attempts in total.
	assert.Equal(t, int32(3), attempts.Load())
}

func TestBscScanClient_RejectionNotRetried(t *testing.T) {
	var attempts atomic.Int32

	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		fmt.Fprint(w, `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`)
	}))

	_, err := client.AccountBalance(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, explorerDomain.ErrExplorerRejected))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestBscScanClient_JSONRPCError(t *testing.T) {
	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid argument"}}`)
	}))

	_, err := client.SubscriptionStatus(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, explorerDomain.ErrExplorerRejected))
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestBscScanClient_ContextCancelledDuringBackoff(t *testing.T) {
	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	client.cfg.RetryBaseDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.AccountBalance(ctx, testAddress)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBscScanClient_Ping(t *testing.T) {
	client, _ := newTestExplorer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "proxy", query.Get("module"))
		assert.Equal(t, "eth_blockNumber", query.Get("action"))
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x2f3e9c1"}`)
	}))

	err := client.Ping(context.Background())
	require.NoError(t, err)
}

func TestPadAddress(t *testing.T) {
	padded := padAddress(testAddress)
	assert.Len(t, padded, 64)
	assert.Equal(t, "000000000000000000000000ab5801a7d398351b8be11c439e05c5b3259aec9b", padded)

	t.Run("input longer than a word", func(t *testing.T) {
		long := "0x" + strings.Repeat("ab", 40)
		padded := padAddress(long)
		assert.Len(t, padded, 64)
		assert.Equal(t, strings.Repeat("ab", 32), padded)
	})
}
