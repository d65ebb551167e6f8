package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
)

type MockKeyProvider struct {
	mock.Mock
}

func (m *MockKeyProvider) CurrentKey(ctx context.Context) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

func (m *MockKeyProvider) UnwrapKey(ctx context.Context, wrapped []byte) ([]byte, error) {
	args := m.Called(ctx, wrapped)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKeyProvider) Rotate(ctx context.Context) (*cryptoDomain.RotationInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.RotationInfo), args.Error(1)
}

func (m *MockKeyProvider) Info() cryptoDomain.KeyInfo {
	return m.Called().Get(0).(cryptoDomain.KeyInfo)
}

func (m *MockKeyProvider) Close() error {
	return m.Called().Error(0)
}

func TestRunRotateKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		provider := &MockKeyProvider{}
		provider.On("Rotate", ctx).Return(&cryptoDomain.RotationInfo{
			Source:     cryptoDomain.SourceLocal,
			WrappedKey: []byte("wrapped"),
			RotatedAt:  time.Now().UTC(),
		}, nil)

		var out bytes.Buffer
		err := RunRotateKey(ctx, provider, logger, &out)
		require.NoError(t, err)
		require.Contains(t, out.String(), "# Source: local")
		require.Contains(t, out.String(), "WRAPPED_DATA_KEY=")

		provider.AssertExpectations(t)
	})

	t.Run("ephemeral-warning", func(t *testing.T) {
		provider := &MockKeyProvider{}
		provider.On("Rotate", ctx).Return(&cryptoDomain.RotationInfo{
			Source:    cryptoDomain.SourceEphemeral,
			RotatedAt: time.Now().UTC(),
		}, nil)

		var out bytes.Buffer
		err := RunRotateKey(ctx, provider, logger, &out)
		require.NoError(t, err)
		require.Contains(t, out.String(), "ephemeral")

		provider.AssertExpectations(t)
	})

	t.Run("rotation-error", func(t *testing.T) {
		provider := &MockKeyProvider{}
		provider.On("Rotate", ctx).Return(nil, errors.New("keeper unavailable"))

		err := RunRotateKey(ctx, provider, logger, &bytes.Buffer{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to rotate key")
	})
}
