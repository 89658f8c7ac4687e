package layout

import (
	"context"
	"testing"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/store"
)

// countingEngine wraps Layered and counts Compute invocations.
type countingEngine struct {
	inner Layered
	calls int
}

func (c *countingEngine) Compute(ctx context.Context, g *assetgraph.Graph, expanded []string, opts Options) (*Layout, error) {
	c.calls++
	return c.inner.Compute(ctx, g, expanded, opts)
}

func TestCachedEngine(t *testing.T) {
	g := pipelineGraph(t)
	counting := &countingEngine{}
	cached := NewCached(counting, store.NewMemory(), nil)
	ctx := context.Background()

	l1, err := cached.Compute(ctx, g, []string{"g1"}, Options{})
	if err != nil {
		t.Fatalf("first Compute: %v", err)
	}
	l2, err := cached.Compute(ctx, g, []string{"g1"}, Options{})
	if err != nil {
		t.Fatalf("second Compute: %v", err)
	}

	if counting.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (second request served from store)", counting.calls)
	}
	if l1.Signature != l2.Signature {
		t.Error("cached layout signature mismatch")
	}

	// Different expansion misses the cache.
	if _, err := cached.Compute(ctx, g, nil, Options{}); err != nil {
		t.Fatal(err)
	}
	if counting.calls != 2 {
		t.Errorf("inner calls = %d, want 2 after distinct request", counting.calls)
	}
}
