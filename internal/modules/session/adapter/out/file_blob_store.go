package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sessionout "studyplan/internal/modules/session/port/out"
	apperrors "studyplan/internal/platform/errors"
)

// FileBlobStore keeps each key in <dir>/<key>.json.
type FileBlobStore struct {
	dir string
}

func NewFileBlobStore(dir string) sessionout.BlobStore {
	return &FileBlobStore{dir: dir}
}

func (s *FileBlobStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("blob key %q: %w", key, apperrors.ErrInvalidInput)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return payload, nil
}

func (s *FileBlobStore) Set(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace blob %s: %w", key, err)
	}
	return nil
}
