package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pictora/pictora/pkg/logging"
)

// LocalStorage stores files on the local filesystem and serves them
// under a configured public URL prefix.
type LocalStorage struct {
	basePath  string
	publicURL string
	logger    *zap.Logger
}

// NewLocalStorage creates a local-disk storage backend
func NewLocalStorage(basePath, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		basePath:  basePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logging.WithComponent("local-storage"),
	}, nil
}

// Upload writes the file under a generated key and returns its public URL
func (s *LocalStorage) Upload(ctx context.Context, file *multipart.FileHeader, prefix string) (string, error) {
	key := objectKey(prefix, file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fullPath := filepath.Join(s.basePath, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Info("File stored", zap.String("path", fullPath))
	return s.publicURL + "/" + key, nil
}

// Delete removes the file the given URL points at. Unknown URLs are
// ignored so deletes stay idempotent.
func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok {
		s.logger.Warn("Ignoring delete for foreign URL", zap.String("url", url))
		return nil
	}

	err := os.Remove(filepath.Join(s.basePath, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
