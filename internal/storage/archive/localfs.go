package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sigscan/sigscan/internal/core"
)

// LocalFS archives exports under a base directory on the local filesystem.
type LocalFS struct {
	baseDir string
}

// NewLocalFS creates the base directory if needed and returns the backend.
func NewLocalFS(baseDir string) (*LocalFS, error) {
	if baseDir == "" {
		baseDir = "exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("create archive dir: %w", err))
	}
	return &LocalFS{baseDir: baseDir}, nil
}

func (l *LocalFS) path(key string) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(key))
}

func (l *LocalFS) Put(ctx context.Context, key string, data []byte) error {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}

func (l *LocalFS) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(l.path(key))
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return data, nil
}

func (l *LocalFS) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	root := l.path(prefix)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return keys, nil
}
