package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const tempPrefix = ".upload-"

type localStore struct {
	dir string
}

// NewLocalStore returns a BlobStore backed by a directory on the local
// filesystem. The directory (and any missing parents) is created on first
// write rather than up front.
func NewLocalStore(dir string) (BlobStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory must not be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory %q: %w", dir, err)
	}
	return &localStore{dir: abs}, nil
}

func (s *localStore) Save(ctx context.Context, name string, contentType string, reader io.Reader) error {
	if err := s.validateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Write to a temp file first and rename into place, so a partial write
	// is never visible under the final name.
	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob %q: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close blob %q: %w", name, err)
	}
	if err = os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to store blob %q: %w", name, err)
	}
	return nil
}

func (s *localStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := s.validateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to open blob %q: %w", name, err)
	}
	return f, nil
}

func (s *localStore) Delete(ctx context.Context, name string) error {
	if err := s.validateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("failed to delete blob %q: %w", name, err)
	}
	return nil
}

func (s *localStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list upload directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// validateName rejects names that would escape the upload directory.
func (s *localStore) validateName(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return nil
}
