package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ipfsDomain "github.com/allisson/dataproof/internal/ipfs/domain"
)

type MockStoreClient struct {
	mock.Mock
}

func (m *MockStoreClient) PinJSON(
	ctx context.Context,
	content any,
	metadata ipfsDomain.PinMetadata,
) (*ipfsDomain.PinResult, error) {
	args := m.Called(ctx, content, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ipfsDomain.PinResult), args.Error(1)
}

func (m *MockStoreClient) FetchByCID(ctx context.Context, cid string) ([]byte, error) {
	args := m.Called(ctx, cid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStoreClient) Pin(
	ctx context.Context,
	cid string,
	metadata ipfsDomain.PinMetadata,
) (*ipfsDomain.PinResult, error) {
	args := m.Called(ctx, cid, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ipfsDomain.PinResult), args.Error(1)
}

func (m *MockStoreClient) TestAuthentication(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStoreClient) ListPins(ctx context.Context, limit, offset int) ([]ipfsDomain.PinnedFile, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ipfsDomain.PinnedFile), args.Error(1)
}

func (m *MockStoreClient) Unpin(ctx context.Context, cid string) error {
	return m.Called(ctx, cid).Error(0)
}

func (m *MockStoreClient) GatewayURL(cid string) string {
	return m.Called(cid).String(0)
}

func TestRunCheckStore(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		store := &MockStoreClient{}
		store.On("TestAuthentication", ctx).Return(nil)

		var out bytes.Buffer
		err := RunCheckStore(ctx, store, logger, &out)
		require.NoError(t, err)
		require.Contains(t, out.String(), "store authentication OK")

		store.AssertExpectations(t)
	})

	t.Run("authentication-failure", func(t *testing.T) {
		store := &MockStoreClient{}
		store.On("TestAuthentication", ctx).Return(errors.New("bad credentials"))

		err := RunCheckStore(ctx, store, logger, &bytes.Buffer{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "store authentication failed")
	})
}
