package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Open and Delete when the named blob is gone.
// Callers that tolerate missing files (archiving, cascading cleanup) check
// for it and skip.
var ErrNotExist = errors.New("blob does not exist")

// BlobStore holds the raw uploaded files, addressed by generated names.
type BlobStore interface {
	// Save writes the blob under the given name. The blob is never visible
	// under its final name until it is fully written.
	Save(ctx context.Context, name string, contentType string, reader io.Reader) error

	Open(ctx context.Context, name string) (io.ReadCloser, error)

	Delete(ctx context.Context, name string) error

	// List returns the names of all stored blobs.
	List(ctx context.Context) ([]string, error)
}
