// Package blobstore abstracts where exported snapshots are kept.
//
// A store persists primarily to its local .ivry file; blob stores are the
// optional second home for snapshots (backups, sharing across machines).
// Implementations ship for memory (tests), local directories and
// S3-compatible object storage.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations must return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// BlobStore stores immutable named blobs.
type BlobStore interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous blob of that name.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs whose bytes are available
// without copying. The slice is valid until the Blob is closed.
type Mappable interface {
	Bytes() ([]byte, error)
}

// ReadAll reads the full content of a blob, using the zero-copy path when
// the implementation offers one.
func ReadAll(b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		// Copy so the caller may outlive the blob handle.
		return append([]byte(nil), data...), nil
	}

	out := make([]byte, b.Size())
	if _, err := b.ReadAt(out, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}
