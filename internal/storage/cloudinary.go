package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Uploader is the part of the Cloudinary upload API the store needs.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// eager transformation served to clients
const imageEager = "q_auto,f_auto,w_800,c_fill"

// CloudinaryStore uploads images to Cloudinary.
type CloudinaryStore struct {
	uploader Uploader
}

func NewCloudinaryStore(up Uploader) *CloudinaryStore {
	return &CloudinaryStore{uploader: up}
}

// NewCloudinaryStoreFromParams builds a store from cloud name, API key and secret.
func NewCloudinaryStoreFromParams(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid cloudinary credentials: %w", err)
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary uploader: %w", err)
	}
	return NewCloudinaryStore(up), nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, folder string, file File) (string, error) {
	publicID, _ := objectName(file.Filename)
	eagerAsync := false

	result, err := s.uploader.Upload(ctx, file.Reader, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsync,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	if len(result.Eager) > 0 && result.Eager[0].SecureURL != "" {
		return result.Eager[0].SecureURL, nil
	}
	return result.SecureURL, nil
}
