package metadata

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("metadata entry not found")

type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (*Entry, error)
	// Put inserts or replaces the value of key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}
