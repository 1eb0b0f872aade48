package archive

import (
	"context"
	"fmt"

	"github.com/sigscan/sigscan/internal/core"
)

// Backend stores exported signal logs. Keys are slash-separated relative
// paths like "signals/signals-20240601-120000.csv".
type Backend interface {
	// Put stores an export under the given key, overwriting any previous
	// object with the same key.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves a previously stored export.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys under a prefix, useful for finding past
	// exports.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Config selects and configures an archive backend.
type Config struct {
	Type string // "local" or "s3"
	Path string // base directory for the local backend
	S3   S3Config
}

// New creates the backend named by cfg.Type.
func New(cfg Config) (Backend, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(cfg.S3)
	default:
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("unknown archive type %q", cfg.Type))
	}
}
