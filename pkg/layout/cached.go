package layout

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/store"
)

// Cached wraps an engine with store-backed memoization keyed by the
// request signature. Identical (graph, expansion, options) inputs reuse
// the stored layout instead of recomputing.
//
// Store failures degrade to a recompute; they never surface as layout
// errors.
type Cached struct {
	Inner  Engine
	Store  store.Store
	Logger *log.Logger
}

// NewCached creates a caching wrapper. A nil store disables caching by
// falling back to an in-memory store.
func NewCached(inner Engine, s store.Store, logger *log.Logger) *Cached {
	if s == nil {
		s = store.NewMemory()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Inner: inner, Store: s, Logger: logger}
}

// Compute implements [Engine].
func (c *Cached) Compute(ctx context.Context, g *assetgraph.Graph, expanded []string, opts Options) (*Layout, error) {
	sig := Signature(g, expanded, opts)
	key := "layout:" + sig

	if data, hit, err := c.Store.Get(ctx, key); err == nil && hit {
		if cached, err := Unmarshal(data); err == nil && cached.Signature == sig {
			c.Logger.Debug("layout cache hit", "signature", sig[:12])
			return cached, nil
		}
		// Corrupt entry: recompute and overwrite.
	}

	l, err := c.Inner.Compute(ctx, g, expanded, opts)
	if err != nil {
		return nil, err
	}

	if data, err := Marshal(l); err == nil {
		_ = c.Store.Set(ctx, key, data, store.TTLLayout)
	}
	return l, nil
}

var _ Engine = (*Cached)(nil)
