// Package storage uploads user images to a media host and returns their public URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FolderRecipes = "soyummy/recipes"
	FolderAvatars = "soyummy/avatars"
)

var (
	ErrUnsupportedImage = errors.New("only jpg, jpeg and png images are allowed")
	ErrImageTooLarge    = errors.New("image exceeds the maximum upload size")
	ErrUnavailable      = errors.New("media storage is unavailable")
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// File is an uploaded image ready to be stored.
type File struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// ImageStore persists an image under folder and returns a durable URL.
type ImageStore interface {
	Upload(ctx context.Context, folder string, file File) (string, error)
}

// ValidateImage checks the extension and size of an upload.
func ValidateImage(filename string, size, maxSize int64) error {
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]; !ok {
		return ErrUnsupportedImage
	}
	if size > maxSize {
		return fmt.Errorf("%w (%d bytes)", ErrImageTooLarge, maxSize)
	}
	return nil
}

// objectName returns a collision free name that keeps the original extension.
func objectName(filename string) (string, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString(), ext
}

func contentTypeFor(file File) string {
	if file.ContentType != "" && file.ContentType != "application/octet-stream" {
		return file.ContentType
	}
	if ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(file.Filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
