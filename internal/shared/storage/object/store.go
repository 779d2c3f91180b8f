package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that escape the store namespace.
var ErrInvalidKey = errors.New("invalid storage key")

// Store defines the contract for saving and retrieving binary objects.
type Store interface {
	// Put writes r under key, replacing any existing object, and returns the bytes written.
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// DownloadURL returns a URL a browser can fetch the object from.
	DownloadURL(ctx context.Context, key string) (string, error)
}
