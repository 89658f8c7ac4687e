package layout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/jruhland/assetscope/pkg/assetgraph"
)

// Direction selects the primary flow axis of the diagram.
type Direction string

const (
	DirectionTB Direction = "TB" // top-down (default)
	DirectionLR Direction = "LR" // left-right
)

// Detail selects the node box sizing facet.
type Detail string

const (
	DetailFull    Detail = "full"
	DetailCompact Detail = "compact"
)

// Options configure layout computation.
type Options struct {
	Direction Direction `json:"direction"`
	Detail    Detail    `json:"detail"`
}

// withDefaults fills zero-value fields.
func (o Options) withDefaults() Options {
	if o.Direction == "" {
		o.Direction = DirectionTB
	}
	if o.Detail == "" {
		o.Detail = DetailFull
	}
	return o
}

// Engine computes a layout from a graph and the set of expanded groups.
// Implementations must be pure: the same inputs produce the same layout,
// and the returned layout's Signature must equal
// Signature(graph, expanded, opts). Compute may be slow for large graphs
// and is always invoked off the interaction path.
type Engine interface {
	Compute(ctx context.Context, g *assetgraph.Graph, expanded []string, opts Options) (*Layout, error)
}

// Signature returns the canonical identity of a layout request. The
// explorer compares an arriving layout's signature against the most
// recently requested one and silently discards mismatches, so a slow old
// request can never clobber a newer result.
func Signature(g *assetgraph.Graph, expanded []string, opts Options) string {
	opts = opts.withDefaults()
	graphData, _ := assetgraph.MarshalGraph(g)
	exp := slices.Clone(expanded)
	slices.Sort(exp)
	payload, _ := json.Marshal(struct {
		Graph    string   `json:"graph"`
		Expanded []string `json:"expanded"`
		Options  Options  `json:"options"`
	}{
		Graph:    hashHex(graphData),
		Expanded: exp,
		Options:  opts,
	})
	return hashHex(payload)
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
