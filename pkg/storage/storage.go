package storage

import (
	"errors"
	"io"
)

// ErrBlobNotFound is returned when a handle has no bytes behind it.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore holds raw file bytes addressed by an opaque handle. The
// relational layer never sees the bytes; it only records the handle.
type BlobStore interface {
	// Put streams the bytes in and returns the handle and the byte
	// count actually written. Handles are unique per call; two
	// concurrent puts never collide.
	Put(reader io.Reader, originalName string) (handle string, size int64, err error)

	// Get opens the blob for reading. Returns ErrBlobNotFound when the
	// handle has no backing bytes.
	Get(handle string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting an absent blob is not an error.
	Delete(handle string) error

	// Exists reports whether the handle has backing bytes.
	Exists(handle string) bool
}
