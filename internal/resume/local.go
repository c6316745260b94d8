package resume

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

// LocalStorage keeps resumes on the local filesystem, for single-node
// deployments and development.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating resume directory %s: %w", dir, err)
	}
	// resolve compares against Join output, which is cleaned, so the root
	// must be cleaned too or relative dirs like "./resumes" never match.
	return &LocalStorage{dir: filepath.Clean(dir)}, nil
}

// resolve maps a key to a path inside the storage root, rejecting traversal.
func (l *LocalStorage) resolve(key string) (string, error) {
	p := filepath.Join(l.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(p, l.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid resume key %q", key)
	}
	return p, nil
}

func (l *LocalStorage) Save(_ context.Context, key string, r io.Reader) error {
	p, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating resume subdirectory: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating resume file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("writing resume file: %w", err)
	}
	return f.Close()
}

func (l *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening resume file: %w", err)
	}
	return f, nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing resume file: %w", err)
	}
	return nil
}
