package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound signals an expected miss: the path holds no object. Callers
// that treat a miss as normal control flow test for it with errors.Is;
// every other store failure is a real error.
var ErrNotFound = errors.New("object not found")

// Object describes one stored artifact in a listing.
type Object struct {
	Path         string
	LastModified time.Time
}

// Store is a blob namespace addressed by hierarchical slash-separated
// paths. Implementations do not interpret path segments; the pipeline
// coordinator owns the layout convention.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	// Delete is idempotent: removing a path that holds no object is not
	// an error.
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]Object, error)
}
