package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pictora/pictora/pkg/config"
)

// ObjectStorage stores uploaded files and returns their public URLs.
// On deletion it is addressed by the URL it returned.
type ObjectStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, prefix string) (string, error)
	Delete(ctx context.Context, url string) error
}

// New creates the object storage backend selected by configuration
func New(cfg *config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStorage(cfg.LocalPath, cfg.PublicURL)
	case "s3":
		return NewS3Storage(cfg.S3Region, cfg.S3Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}

// objectKey builds a collision-free storage key, keeping the original
// file extension.
func objectKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(filename))
}
