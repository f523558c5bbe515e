package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Store is a read-only view over stored objects such as the catalog resource.
type Store interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
