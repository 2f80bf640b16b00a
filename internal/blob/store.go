// Package blob abstracts where snapshot bytes live: a local
// directory, process memory, or an S3-compatible object store.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the named blob does not exist.
// Implementations must return an error satisfying
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("blob not found")

// Store reads and writes whole named blobs. Put must be atomic: a
// reader never observes a partially written blob, even across a
// crash mid-write.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}
