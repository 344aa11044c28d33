package db

import (
	"context"
	"errors"
)

// Sentinel errors for storage operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// KVStore is the key-value contract the repositories build on.
// Consumers declare narrower sub-interfaces (ISP).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Has(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// IteratePrefix visits keys with the given prefix in ascending key
	// order. Returning an error from fn stops the iteration.
	IteratePrefix(ctx context.Context, prefix string, fn func(key string, value []byte) error) error
	Close() error
}
