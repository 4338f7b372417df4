package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in one JSON object on disk, the same shape as a
// browser localStorage dump.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// OpenFile opens or creates a JSON file store
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &fs.values); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	return fs, nil
}

// Get returns the value stored under key
func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if fs.closed {
		return "", false, ErrClosed
	}
	v, ok := fs.values[key]
	return v, ok, nil
}

// SetMany applies values and rewrites the file. On failure the in-memory
// values are left as they were.
func (fs *FileStore) SetMany(values map[string]string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.closed {
		return ErrClosed
	}

	next := make(map[string]string, len(fs.values)+len(values))
	for k, v := range fs.values {
		next[k] = v
	}
	for k, v := range values {
		next[k] = v
	}

	if err := fs.write(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}

// write replaces the file through a temp file and rename
func (fs *FileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding values: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("replacing %s: %w", fs.path, err)
	}
	return nil
}

// Close marks the store closed. Every write is already on disk.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.closed = true
	return nil
}

// Register the file backend
func init() {
	Register("file", func(path string) (KV, error) {
		fs, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	})
}
