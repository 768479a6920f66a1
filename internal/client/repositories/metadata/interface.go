// Package metadata is the client-local key/value store backing the session
// token slot. It plays the role browser local storage plays for the web
// front-end.
package metadata

import (
	"context"
)

// Repository is a small key/value store. Get returns (nil, nil) for a missing
// key and Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
