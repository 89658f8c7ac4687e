// Package store provides the key-value persistence substrate for view
// preferences (expanded groups, layout options) and cached layouts.
//
// Three backends are provided:
//   - Memory: in-process, for tests and ephemeral sessions
//   - File: hash-sharded JSON entries under a directory, for CLI usage
//   - Redis: shared deployments where view state survives across hosts
//
// Keys for persisted view state are built with [ViewKey], a typed
// composite of view identity and scope. Building keys from a struct
// instead of string concatenation avoids collisions between scopes that
// happen to share a delimiter.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TTLs for the entry classes assetscope persists. View state has no
// expiry; cached layouts age out.
const (
	TTLViewState time.Duration = 0
	TTLLayout                  = 7 * 24 * time.Hour
)

// Store is the interface for key-value persistence backends.
// Get returns (nil, false, nil) on a miss; a malformed or expired entry is
// a miss, never an error, so a broken store can not block rendering.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ViewKey identifies persisted state for one view context. Distinct
// graphs (different scopes) never share expansion state; the same view
// remounted with the same scope gets its state back.
type ViewKey struct {
	View  string // view type, e.g. "explorer"
	Scope string // query scope or graph identity
	Field string // which piece of state, e.g. "expanded-groups"
}

// Key returns the stable store key for this view key.
func (k ViewKey) Key() string {
	return hashKey("view", k.View, k.Scope, k.Field)
}

// hashKey generates a store key by hashing the components.
// The key format is: prefix:hash(parts...).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes the SHA-256 hash of data as a 64-char hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
