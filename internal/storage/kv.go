package storage

import "errors"

// ErrClosed is returned by operations on a store that has been closed
var ErrClosed = errors.New("storage closed")

// KV is a string-keyed persistent store
type KV interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// SetMany writes every entry or none of them
	SetMany(values map[string]string) error

	// Close releases the underlying resources
	Close() error
}

// Factory opens a store at path. Backends that do not use a path ignore it.
type Factory func(path string) (KV, error)
