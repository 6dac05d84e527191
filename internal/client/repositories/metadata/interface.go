package metadata

import (
	"context"
)

// Repository is the client's durable key/value storage. Values are opaque
// blobs; the stores above it keep one JSON document per key.
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
