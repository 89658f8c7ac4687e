package layout

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jruhland/assetscope/pkg/assetgraph"
)

// Geometry constants for the built-in engine. The detail facet only
// affects node box height.
const (
	unitWidth         = 220.0
	unitHeightFull    = 72.0
	unitHeightCompact = 36.0
	externalHeight    = 48.0
	gapAcross         = 40.0
	gapAlong          = 60.0
	groupPadding      = 24.0
	canvasMargin      = 48.0
)

// Layered is the built-in layout engine: longest-path layering over the
// visible graph. Collapsed groups participate as single pseudo-nodes;
// expanded groups contribute their member nodes individually and receive
// a padded bounding box. External references are placed like nodes and
// flagged.
//
// The engine is deterministic: units within a layer are ordered by ID.
type Layered struct {
	Logger *log.Logger
}

type unitKind int

const (
	unitNode unitKind = iota
	unitGroup
	unitExternal
)

type unit struct {
	id   string
	kind unitKind
}

// Compute implements [Engine].
func (e *Layered) Compute(ctx context.Context, g *assetgraph.Graph, expanded []string, opts Options) (*Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	start := time.Now()

	expandedSet := make(map[string]bool, len(expanded))
	for _, id := range expanded {
		expandedSet[id] = true
	}

	// Map every token to its visible unit.
	units := make(map[string]unit)
	unitOf := make(map[string]string)
	for _, n := range g.Nodes() {
		token := n.Key.Token()
		group := n.Group()
		if expandedSet[group] {
			units[token] = unit{id: token, kind: unitNode}
			unitOf[token] = token
		} else {
			uid := "group:" + group
			units[uid] = unit{id: uid, kind: unitGroup}
			unitOf[token] = uid
		}
	}
	for _, token := range g.ExternalTokens() {
		units[token] = unit{id: token, kind: unitExternal}
		unitOf[token] = token
	}

	// Unit-level adjacency. Collapsing groups can fold distinct tokens
	// into the same unit, so self-edges are dropped here.
	incoming := make(map[string][]string)
	seenEdge := make(map[[2]string]bool)
	for _, edge := range g.Edges() {
		from, to := unitOf[edge.From], unitOf[edge.To]
		if from == "" || to == "" || from == to {
			continue
		}
		key := [2]string{from, to}
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true
		incoming[to] = append(incoming[to], from)
	}

	layers := assignLayers(units, incoming)

	// Deterministic order within each layer.
	byLayer := make(map[int][]string)
	maxLayer := 0
	for uid, l := range layers {
		byLayer[l] = append(byLayer[l], uid)
		if l > maxLayer {
			maxLayer = l
		}
	}
	for _, ids := range byLayer {
		slices.Sort(ids)
	}

	unitHeight := unitHeightFull
	if opts.Detail == DetailCompact {
		unitHeight = unitHeightCompact
	}

	boxes := make(map[string]Box, len(units))
	var width, height float64
	for l := 0; l <= maxLayer; l++ {
		for i, uid := range byLayer[l] {
			h := unitHeight
			if units[uid].kind == unitExternal {
				h = externalHeight
			}
			var b Box
			if opts.Direction == DirectionLR {
				b = Box{
					X:      canvasMargin + float64(l)*(unitWidth+gapAlong),
					Y:      canvasMargin + float64(i)*(unitHeight+gapAcross),
					Width:  unitWidth,
					Height: h,
				}
			} else {
				b = Box{
					X:      canvasMargin + float64(i)*(unitWidth+gapAcross),
					Y:      canvasMargin + float64(l)*(unitHeight+gapAlong),
					Width:  unitWidth,
					Height: h,
				}
			}
			boxes[uid] = b
			width = max(width, b.X+b.Width)
			height = max(height, b.Y+b.Height)
		}
	}

	out := &Layout{
		Signature: Signature(g, expanded, opts),
		Nodes:     make(map[string]NodeBox),
		Groups:    make(map[string]GroupBox),
		Width:     width + canvasMargin,
		Height:    height + canvasMargin,
	}

	for uid, u := range units {
		switch u.kind {
		case unitNode:
			out.Nodes[uid] = NodeBox{Token: uid, Box: boxes[uid]}
		case unitExternal:
			out.Nodes[uid] = NodeBox{Token: uid, Box: boxes[uid], External: true}
		case unitGroup:
			out.Groups[uid[len("group:"):]] = GroupBox{ID: uid[len("group:"):], Box: boxes[uid]}
		}
	}

	// Expanded groups get a padded bounding box around their members.
	for groupID, members := range g.Groups() {
		if !expandedSet[groupID] {
			continue
		}
		var bounds Box
		first := true
		for _, token := range members {
			nb, ok := out.Nodes[token]
			if !ok {
				continue
			}
			if first {
				bounds = nb.Box
				first = false
				continue
			}
			bounds = union(bounds, nb.Box)
		}
		if first {
			continue
		}
		out.Groups[groupID] = GroupBox{
			ID: groupID,
			Box: Box{
				X:      bounds.X - groupPadding,
				Y:      bounds.Y - groupPadding,
				Width:  bounds.Width + 2*groupPadding,
				Height: bounds.Height + 2*groupPadding,
			},
			Expanded: true,
		}
		out.Width = max(out.Width, bounds.X+bounds.Width+groupPadding+canvasMargin)
		out.Height = max(out.Height, bounds.Y+bounds.Height+groupPadding+canvasMargin)
	}

	// Route edges between unit anchor boxes. Edges folded inside a
	// collapsed group have no visible route.
	for _, edge := range g.Edges() {
		from, to := unitOf[edge.From], unitOf[edge.To]
		if from == "" || to == "" || from == to {
			continue
		}
		fb, tb := boxes[from], boxes[to]
		var route []Point
		if opts.Direction == DirectionLR {
			startPt := Point{X: fb.X + fb.Width, Y: fb.Y + fb.Height/2}
			endPt := Point{X: tb.X, Y: tb.Y + tb.Height/2}
			route = []Point{startPt, {X: (startPt.X + endPt.X) / 2, Y: endPt.Y}, endPt}
		} else {
			startPt := Point{X: fb.X + fb.Width/2, Y: fb.Y + fb.Height}
			endPt := Point{X: tb.X + tb.Width/2, Y: tb.Y}
			route = []Point{startPt, {X: endPt.X, Y: (startPt.Y + endPt.Y) / 2}, endPt}
		}
		out.Edges = append(out.Edges, EdgeRoute{From: edge.From, To: edge.To, Points: route})
	}

	if e.Logger != nil {
		e.Logger.Debug("computed layout",
			"nodes", out.NodeCount(),
			"groups", out.GroupCount(),
			"edges", out.EdgeCount(),
			"duration", time.Since(start).Round(time.Millisecond))
	}
	return out, nil
}

// assignLayers computes longest-path layers over the unit graph.
// Folding collapsed groups can introduce unit-level cycles even though
// the token graph is acyclic; a gray unit encountered mid-walk is treated
// as layer 0 to break the loop deterministically.
func assignLayers(units map[string]unit, incoming map[string][]string) map[string]int {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(units))
	layers := make(map[string]int, len(units))

	var walk func(uid string) int
	walk = func(uid string) int {
		switch color[uid] {
		case black:
			return layers[uid]
		case gray:
			return 0
		}
		color[uid] = gray
		depth := 0
		for _, parent := range incoming[uid] {
			if d := walk(parent) + 1; d > depth {
				depth = d
			}
		}
		color[uid] = black
		layers[uid] = depth
		return depth
	}

	ids := make([]string, 0, len(units))
	for uid := range units {
		ids = append(ids, uid)
	}
	slices.Sort(ids)
	for _, uid := range ids {
		walk(uid)
	}
	return layers
}

func union(a, b Box) Box {
	x1 := min(a.X, b.X)
	y1 := min(a.Y, b.Y)
	x2 := max(a.X+a.Width, b.X+b.Width)
	y2 := max(a.Y+a.Height, b.Y+b.Height)
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

var _ Engine = (*Layered)(nil)
