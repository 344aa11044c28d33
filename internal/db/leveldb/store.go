// Package leveldb implements the KV contract on an embedded goleveldb
// database, fitting the engine's offline, single-process lifecycle.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/tonyispowerful/pdf-process/internal/db"
)

// Store is a goleveldb-backed key-value store.
type Store struct {
	ldb *leveldb.DB
}

// Open opens (or creates) a database at path.
func Open(path string) (*Store, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", path, err)
	}
	return &Store{ldb: ldb}, nil
}

// OpenMemory opens an in-memory database, used in tests.
func OpenMemory() (*Store, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open in-memory leveldb: %w", err)
	}
	return &Store{ldb: ldb}, nil
}

// Get returns the value stored under key, or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, err := s.ldb.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ldb.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Has reports whether key exists.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.ldb.Has([]byte(key), nil)
	if err != nil {
		return false, fmt.Errorf("has %s: %w", key, err)
	}
	return ok, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ldb.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// IteratePrefix visits keys under prefix in ascending key order, which
// keeps corpus enumeration deterministic across scans.
func (s *Store) IteratePrefix(
	ctx context.Context, prefix string, fn func(key string, value []byte) error,
) error {
	iter := s.ldb.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		// iterator buffers are reused between Next calls
		value := append([]byte(nil), iter.Value()...)
		if err := fn(string(iter.Key()), value); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate prefix %s: %w", prefix, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.ldb.Close()
}
