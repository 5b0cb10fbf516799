package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	w.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorageUploadDelete(t *testing.T) {
	dir := t.TempDir()

	s, err := NewLocalStorage(dir, "http://localhost:8080/storage/")
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), fileHeader(t, "photo.jpg", "fake image bytes"), "posts")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/storage/posts/"),
		"url %q should sit under the posts prefix of the public URL", url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), "url %q should keep the original extension", url)

	key := strings.TrimPrefix(url, "http://localhost:8080/storage/")
	onDisk := filepath.Join(dir, key)
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err, "uploaded file should exist on disk")
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, s.Delete(context.Background(), url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err), "file should be gone after Delete")

	// Deletes are idempotent
	assert.NoError(t, s.Delete(context.Background(), url))

	// Foreign URLs are ignored, not errors
	assert.NoError(t, s.Delete(context.Background(), "https://elsewhere.example/file.png"))
}
