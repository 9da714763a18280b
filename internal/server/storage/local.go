package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/portfolio/internal/filex"
)

// LocalStore writes files under Dir; the REST server serves Dir at PublicURL.
type LocalStore struct {
	Dir       string
	PublicURL string
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{Dir: abs, PublicURL: publicURL}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	dst := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := filex.EnsureParentDir(dst); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return joinURL(s.PublicURL, key), nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	key, ok := keyFromURL(s.PublicURL, url)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
