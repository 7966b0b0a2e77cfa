// Package storage persists uploaded banner images and returns a
// retrievable URL for them.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps banner uploads at 5 MB.
const MaxUploadSize = 5 << 20

var (
	// ErrFileTooLarge rejects uploads over MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large, maximum is 5MB")
	// ErrUnsupportedType rejects anything outside the image allow-list.
	ErrUnsupportedType = errors.New("only images are allowed")
)

// Upload describes an incoming banner file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store saves banner uploads.
type Store interface {
	Save(ctx context.Context, up Upload) (string, error)
}

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// checkUpload enforces the size cap and the extension plus declared-type
// allow-list shared by every backend.
func checkUpload(up Upload) (ext string, err error) {
	if up.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	ext = strings.ToLower(filepath.Ext(up.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}
	mediaType := up.ContentType
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	if !allowedContentTypes[strings.TrimSpace(strings.ToLower(mediaType))] {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// limitedBody guards against callers that understate Size.
func limitedBody(up Upload) io.Reader {
	return io.LimitReader(up.Body, MaxUploadSize+1)
}
