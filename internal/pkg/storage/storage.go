package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// Object references a stored file.
type Object struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

type FileStorage interface {
	// Save stores r under dir with a generated name that keeps the extension
	// of fileName.
	Save(ctx context.Context, dir, fileName string, r io.Reader) (Object, error)

	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of path
	URL(path string) string
}
