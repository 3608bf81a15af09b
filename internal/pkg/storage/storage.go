package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

type FileStorage interface {
	// Upload writes a file and returns its cleaned path
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Download opens a file; ErrFileNotFound when absent
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the regular files of dir whose names end in ext
	List(ctx context.Context, dir string, ext string) ([]FileInfo, error)
}

type FileInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}
