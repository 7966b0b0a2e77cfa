package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DiskStore writes banners to a local directory served under /uploads/.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore ensures the upload directory exists.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStore{dir: dir, urlPrefix: "/uploads/"}, nil
}

// Save stores the upload and returns its public URL path.
func (s *DiskStore) Save(ctx context.Context, up Upload) (string, error) {
	ext, err := checkUpload(up)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("banner-%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create banner file: %w", err)
	}
	written, err := io.Copy(f, limitedBody(up))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxUploadSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return s.urlPrefix + name, nil
}
