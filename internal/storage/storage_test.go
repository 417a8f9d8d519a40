package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutObject struct {
	mock.Mock
}

func (m *mockPutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(ctx, file, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uploader.UploadResult), args.Error(1)
}

type failingStore struct {
	calls int
}

func (f *failingStore) Upload(ctx context.Context, folder string, file File) (string, error) {
	f.calls++
	return "", errors.New("host down")
}

func testFile() File {
	return File{Reader: strings.NewReader("png-bytes"), Filename: "Dish.PNG", Size: 9}
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage("a.jpg", 10, 100))
	assert.NoError(t, ValidateImage("a.JPEG", 10, 100))
	assert.NoError(t, ValidateImage("a.png", 100, 100))
	assert.ErrorIs(t, ValidateImage("a.gif", 10, 100), ErrUnsupportedImage)
	assert.ErrorIs(t, ValidateImage("noext", 10, 100), ErrUnsupportedImage)
	assert.ErrorIs(t, ValidateImage("a.png", 101, 100), ErrImageTooLarge)
}

func TestS3StoreUpload(t *testing.T) {
	client := new(mockPutObject)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "images" &&
			strings.HasPrefix(aws.ToString(in.Key), FolderRecipes+"/") &&
			strings.HasSuffix(aws.ToString(in.Key), ".png") &&
			aws.ToString(in.ContentType) == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	url, err := NewS3Store(client, "images", "").Upload(context.Background(), FolderRecipes, testFile())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://images.s3.amazonaws.com/soyummy/recipes/"))
	client.AssertExpectations(t)
}

func TestS3StoreUploadPublicBaseURL(t *testing.T) {
	client := new(mockPutObject)
	client.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	url, err := NewS3Store(client, "images", "https://cdn.test/").Upload(context.Background(), FolderAvatars, testFile())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.test/soyummy/avatars/"))
}

func TestS3StoreUploadError(t *testing.T) {
	client := new(mockPutObject)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := NewS3Store(client, "images", "").Upload(context.Background(), FolderRecipes, testFile())
	assert.ErrorContains(t, err, "access denied")
}

func TestCloudinaryStoreUpload(t *testing.T) {
	up := new(mockUploader)
	up.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(p uploader.UploadParams) bool {
		return p.Folder == FolderRecipes && p.PublicID != ""
	})).Return(&uploader.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/image/upload/x.png",
	}, nil)

	url, err := NewCloudinaryStore(up).Upload(context.Background(), FolderRecipes, testFile())
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/x.png", url)
	up.AssertExpectations(t)
}

func TestCloudinaryStoreRejected(t *testing.T) {
	up := new(mockUploader)
	result := &uploader.UploadResult{}
	result.Error.Message = "Invalid image file"
	up.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(result, nil)

	_, err := NewCloudinaryStore(up).Upload(context.Background(), FolderRecipes, testFile())
	assert.ErrorContains(t, err, "Invalid image file")
}

func TestBreakerStoreOpensAfterFailures(t *testing.T) {
	inner := &failingStore{}
	store := NewBreakerStore(inner, BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := store.Upload(context.Background(), FolderRecipes, testFile())
		assert.ErrorContains(t, err, "host down")
	}

	_, err := store.Upload(context.Background(), FolderRecipes, testFile())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, "open", store.State())
}
