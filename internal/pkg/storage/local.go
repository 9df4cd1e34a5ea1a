package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage keeps files on disk under basePath and serves them from
// baseURL (e.g. "http://localhost:8080/uploads").
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: abs,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// resolve maps a storage path onto the disk, refusing anything that escapes basePath.
func (s *LocalStorage) resolve(p string) (string, error) {
	full := filepath.Join(s.basePath, filepath.FromSlash(p))
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return full, nil
}

func (s *LocalStorage) Save(ctx context.Context, dir, fileName string, r io.Reader) (Object, error) {
	id := uuid.NewString()
	key := path.Join(dir, id+strings.ToLower(filepath.Ext(fileName)))

	full, err := s.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(full)
		return Object{}, fmt.Errorf("failed to write file: %w", err)
	}

	return Object{ID: id, Path: key, URL: s.URL(key)}, nil
}

func (s *LocalStorage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(p string) string {
	return s.baseURL + "/" + strings.TrimLeft(p, "/")
}
