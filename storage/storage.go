package storage

import (
	"context"
	"io"
)

// ImageStore persists uploaded image blobs addressed by key. Save returns the
// path or URI the post row should reference.
type ImageStore interface {
	Save(ctx context.Context, key string, contents io.Reader) (string, error)
	Remove(ctx context.Context, key string) error
}
