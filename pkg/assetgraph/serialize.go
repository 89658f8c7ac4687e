package assetgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Document - Graph Serialization Format
// =============================================================================

// Document is the canonical serialization format for asset graphs.
// Used for files, API responses, and MongoDB storage. The format is
// human-readable and round-trips: import → export → re-import produces an
// identical graph.
type Document struct {
	Nodes []NodeEntry `json:"nodes" bson:"nodes"`
	Edges []EdgeEntry `json:"edges" bson:"edges"`
}

// NodeEntry is the serialized form of a node.
type NodeEntry struct {
	Path  []string       `json:"path" bson:"path"`
	Group string         `json:"group,omitempty" bson:"group,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// EdgeEntry is the serialized form of an edge, endpoints as tokens.
type EdgeEntry struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// ToNode converts an entry back into a graph node.
func (e NodeEntry) ToNode() (Node, error) {
	key, err := NewKey(e.Path...)
	if err != nil {
		return Node{}, err
	}
	return Node{Key: key, GroupID: e.Group, Meta: e.Meta}, nil
}

// FromGraph converts a graph to its serialization format.
// Nodes are sorted by token for deterministic output.
func FromGraph(g *Graph) Document {
	nodes := g.Nodes()
	doc := Document{
		Nodes: make([]NodeEntry, len(nodes)),
		Edges: make([]EdgeEntry, g.EdgeCount()),
	}
	for i, n := range nodes {
		meta := n.Meta
		if len(meta) == 0 {
			meta = nil
		}
		doc.Nodes[i] = NodeEntry{Path: n.Key.Segments(), Group: n.GroupID, Meta: meta}
	}
	for i, e := range g.Edges() {
		doc.Edges[i] = EdgeEntry{From: e.From, To: e.To}
	}
	return doc
}

// ToGraph converts a document to a graph.
// Returns an error for empty node paths or duplicate tokens.
func ToGraph(doc Document) (*Graph, error) {
	g := New()
	for _, ne := range doc.Nodes {
		n, err := ne.ToNode()
		if err != nil {
			return nil, fmt.Errorf("node %v: %w", ne.Path, err)
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.Key.Token(), err)
		}
	}
	for _, ee := range doc.Edges {
		g.AddEdge(Edge{From: ee.From, To: ee.To})
	}
	return g, nil
}

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.MarshalIndent(FromGraph(g), "", "  ")
}

// ReadGraph decodes a JSON document from r into a graph.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// WriteGraphFile writes a graph to a JSON file with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
