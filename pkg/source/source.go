// Package source loads asset graphs from their backing stores and filters
// them by selection query. Providers return ready-to-explore graphs; the
// explorer itself never talks to storage.
package source

import (
	"context"

	"github.com/jruhland/assetscope/pkg/assetgraph"
)

// Provider fetches an asset graph filtered by a selection query. An
// invalid query returns a *QueryError; a valid query matching nothing
// returns an empty graph and nil error.
type Provider interface {
	Fetch(ctx context.Context, query string) (*assetgraph.Graph, error)
}

// filter builds the subgraph of g selected by q. Matching nodes keep
// every incident edge: an edge whose far endpoint was filtered away
// degrades to an external reference rather than disappearing, so the
// filtered view still shows where its boundary crosses.
func filter(g *assetgraph.Graph, q Query) (*assetgraph.Graph, error) {
	if q.Empty() {
		return g, nil
	}

	out := assetgraph.New()
	kept := make(map[string]bool)
	for _, n := range g.Nodes() {
		token := n.Key.Token()
		if !q.Matches(token) {
			continue
		}
		if err := out.AddNode(*n); err != nil {
			return nil, err
		}
		kept[token] = true
	}
	for _, e := range g.Edges() {
		if kept[e.From] || kept[e.To] {
			out.AddEdge(e)
		}
	}
	return out, nil
}
