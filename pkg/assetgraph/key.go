package assetgraph

import (
	"errors"
	"strings"
)

// ErrEmptyKey is returned by [ParseToken] and [NewKey] when no path
// segments are present. Every asset key needs at least one segment.
var ErrEmptyKey = errors.New("asset key must have at least one segment")

// Key identifies an asset by its ordered path segments (e.g. a namespace
// path like ["analytics", "daily", "orders"]). Keys are value types;
// identity is derived deterministically from the segments via [Key.Token].
type Key struct {
	segments []string
}

// NewKey creates a key from path segments.
// Returns ErrEmptyKey if no segments are given.
func NewKey(segments ...string) (Key, error) {
	if len(segments) == 0 {
		return Key{}, ErrEmptyKey
	}
	return Key{segments: append([]string(nil), segments...)}, nil
}

// MustKey is a convenience constructor for literals in tests and examples.
// It panics if segments is empty.
func MustKey(segments ...string) Key {
	k, err := NewKey(segments...)
	if err != nil {
		panic(err)
	}
	return k
}

// Segments returns a copy of the key's path segments.
func (k Key) Segments() []string {
	return append([]string(nil), k.segments...)
}

// Token returns the stable string identity of the key: segments joined by
// "/", with backslashes and literal slashes inside a segment escaped.
// Two keys are the same asset iff their tokens are equal.
func (k Key) Token() string {
	var b strings.Builder
	for i, seg := range k.segments {
		if i > 0 {
			b.WriteByte('/')
		}
		for _, r := range seg {
			switch r {
			case '\\':
				b.WriteString(`\\`)
			case '/':
				b.WriteString(`\/`)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// ParseToken is the inverse of [Key.Token].
// Returns ErrEmptyKey for the empty string.
func ParseToken(token string) (Key, error) {
	if token == "" {
		return Key{}, ErrEmptyKey
	}
	var segments []string
	var seg strings.Builder
	escaped := false
	for _, r := range token {
		switch {
		case escaped:
			seg.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			segments = append(segments, seg.String())
			seg.Reset()
		default:
			seg.WriteRune(r)
		}
	}
	segments = append(segments, seg.String())
	return Key{segments: segments}, nil
}

// Leaf returns the last path segment, used as the short display name.
func (k Key) Leaf() string {
	if len(k.segments) == 0 {
		return ""
	}
	return k.segments[len(k.segments)-1]
}
