package layout

import (
	"encoding/json"
	"fmt"
)

// Point is a canvas-space coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Box is an axis-aligned bounding box in canvas space.
type Box struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Intersects reports whether two boxes overlap.
func (b Box) Intersects(o Box) bool {
	return b.X < o.X+o.Width && o.X < b.X+b.Width &&
		b.Y < o.Y+o.Height && o.Y < b.Y+b.Height
}

// NodeBox is the computed geometry for one visible node.
// External marks a placeholder for a token with no backing definition.
type NodeBox struct {
	Token    string `json:"token" bson:"token"`
	Box      Box    `json:"box" bson:"box"`
	External bool   `json:"external,omitempty" bson:"external,omitempty"`
}

// GroupBox is the computed geometry for one group, collapsed or expanded.
type GroupBox struct {
	ID       string `json:"id" bson:"id"`
	Box      Box    `json:"box" bson:"box"`
	Expanded bool   `json:"expanded,omitempty" bson:"expanded,omitempty"`
}

// EdgeRoute is the routing geometry for one edge, endpoints as tokens.
type EdgeRoute struct {
	From   string  `json:"from" bson:"from"`
	To     string  `json:"to" bson:"to"`
	Points []Point `json:"points" bson:"points"`
}

// Layout is the externally computed geometry for all visible nodes,
// groups, and edges, plus the overall canvas size. A layout is immutable
// once produced; a new layout fully replaces the old one.
//
// Signature identifies the (graph, expansion, options) input the layout
// was computed from; the explorer uses it to discard superseded results.
type Layout struct {
	Signature string              `json:"signature" bson:"signature"`
	Nodes     map[string]NodeBox  `json:"nodes" bson:"nodes"`
	Groups    map[string]GroupBox `json:"groups" bson:"groups"`
	Edges     []EdgeRoute         `json:"edges" bson:"edges"`
	Width     float64             `json:"width" bson:"width"`
	Height    float64             `json:"height" bson:"height"`
}

// NodeCount returns the number of positioned nodes, placeholders included.
func (l *Layout) NodeCount() int { return len(l.Nodes) }

// EdgeCount returns the number of routed edges.
func (l *Layout) EdgeCount() int { return len(l.Edges) }

// GroupCount returns the number of positioned groups.
func (l *Layout) GroupCount() int { return len(l.Groups) }

// SameCounts reports whether two layouts have identical node, edge, and
// group counts - the "materially identical topology" test used to decide
// whether a relayout warrants autocentering.
func (l *Layout) SameCounts(o *Layout) bool {
	if o == nil {
		return false
	}
	return l.NodeCount() == o.NodeCount() &&
		l.EdgeCount() == o.EdgeCount() &&
		l.GroupCount() == o.GroupCount()
}

// Marshal serializes a layout to indented JSON.
func Marshal(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a layout.
func Unmarshal(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Nodes == nil {
		l.Nodes = map[string]NodeBox{}
	}
	if l.Groups == nil {
		l.Groups = map[string]GroupBox{}
	}
	return &l, nil
}
