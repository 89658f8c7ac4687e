package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// File implements a file-based store for CLI usage.
// Entries are stored as JSON files with expiration metadata, sharded into
// subdirectories by key hash to avoid large flat directories.
type File struct {
	dir string
}

// NewFile creates a file-based store rooted at dir.
// The directory is created if it doesn't exist.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

// entry wraps stored data with metadata.
type entry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value. Corrupt or expired entries are removed and
// reported as a miss.
func (s *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}

	if !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return e.Data, true, nil
}

// Set stores a value. A ttl of zero means no expiry.
func (s *File) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0644)
}

// Delete removes a value. Deleting a missing key is not an error.
func (s *File) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file store.
func (s *File) Close() error { return nil }

// path converts a store key to a file path.
// The first 2 chars of the key hash pick a shard subdirectory.
func (s *File) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(s.dir, sum[:2], sum[2:]+".json")
}

var _ Store = (*File)(nil)
