package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Local stores blobs on the local filesystem under a base directory,
// fanned out by the first characters of the handle to keep directories
// small.
type Local struct {
	basePath string
}

// NewLocal creates a disk-backed blob store rooted at basePath.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{basePath: basePath}, nil
}

func (s *Local) Put(reader io.Reader, originalName string) (string, int64, error) {
	handle := newHandle(originalName)
	targetPath := s.blobPath(handle)

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", 0, err
	}

	tempFile, err := os.CreateTemp(s.basePath, "upload-*")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tempFile.Name())

	size, err := io.Copy(tempFile, reader)
	if err != nil {
		tempFile.Close()
		return "", 0, err
	}
	if err := tempFile.Close(); err != nil {
		return "", 0, err
	}

	if err := os.Rename(tempFile.Name(), targetPath); err != nil {
		return "", 0, err
	}

	return handle, size, nil
}

func (s *Local) Get(handle string) (io.ReadCloser, error) {
	f, err := os.Open(s.blobPath(handle))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Local) Delete(handle string) error {
	if err := os.Remove(s.blobPath(handle)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Local) Exists(handle string) bool {
	_, err := os.Stat(s.blobPath(handle))
	return err == nil
}

func (s *Local) blobPath(handle string) string {
	return filepath.Join(s.basePath, handle[:2], handle)
}

// newHandle builds a collision-resistant blob name from a timestamp and
// a random UUID, keeping the original extension so the bytes on disk
// stay recognizable.
func newHandle(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}
