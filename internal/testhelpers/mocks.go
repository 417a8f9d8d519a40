package testhelpers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/soyummy/backend/internal/storage"
	"github.com/pageza/soyummy/backend/internal/types"
)

// MockImageStore is a storage.ImageStore for tests.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, folder string, file storage.File) (string, error) {
	if file.Reader != nil {
		_, _ = io.Copy(io.Discard, file.Reader)
	}
	args := m.Called(ctx, folder, file.Filename)
	return args.String(0), args.Error(1)
}

// MockTokenValidator is a fixed token validator for handler tests.
type MockTokenValidator struct {
	Claims *types.TokenClaims
	Error  error
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Claims, nil
}
