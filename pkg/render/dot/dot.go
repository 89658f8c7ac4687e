// Package dot renders asset graphs to Graphviz DOT and SVG, honoring the
// explorer's group-expansion state: expanded groups become clusters,
// collapsed groups a single box standing in for all their members.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/layout"
)

// Options configures DOT generation.
type Options struct {
	// Direction of rank layout, defaulting to top-to-bottom.
	Direction layout.Direction

	// Detailed includes group and metadata lines in node labels.
	// When false, only the asset's leaf name is shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT. Groups listed in expanded are
// emitted as clusters containing their member nodes; every other group
// collapses into a single box, with member edges remapped onto it and
// de-duplicated. External references render as dashed grey boxes.
func ToDOT(g *assetgraph.Graph, expanded []string, opts Options) string {
	isExpanded := make(map[string]bool, len(expanded))
	for _, id := range expanded {
		isExpanded[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph assets {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(opts.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	groups := g.Groups()
	for _, id := range slices.Sorted(maps.Keys(groups)) {
		members := groups[id]
		if isExpanded[id] {
			fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+id)
			fmt.Fprintf(&buf, "    label=%q;\n", id)
			buf.WriteString("    style=\"rounded\";\n")
			for _, token := range members {
				n, _ := g.Node(token)
				fmt.Fprintf(&buf, "    %q [label=%q];\n", token, nodeLabel(n, opts.Detailed))
			}
			buf.WriteString("  }\n")
		} else {
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,bold\"];\n",
				groupNodeID(id), fmt.Sprintf("%s (%d)", id, len(members)))
		}
	}

	for _, token := range g.ExternalTokens() {
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n",
			token, token)
	}

	buf.WriteString("\n")
	seen := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		from := edgeEndpoint(g, e.From, isExpanded)
		to := edgeEndpoint(g, e.To, isExpanded)
		if from == to {
			continue // intra-group edge of a collapsed group
		}
		pair := [2]string{from, to}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// edgeEndpoint maps a token to the DOT node it renders as: itself when
// its group is expanded or it is external, else its collapsed group box.
func edgeEndpoint(g *assetgraph.Graph, token string, isExpanded map[string]bool) string {
	n, ok := g.Node(token)
	if !ok {
		return token
	}
	if isExpanded[n.Group()] {
		return token
	}
	return groupNodeID(n.Group())
}

func groupNodeID(id string) string { return "group:" + id }

func rankdir(d layout.Direction) string {
	if d == layout.DirectionLR {
		return "LR"
	}
	return "TB"
}

func nodeLabel(n *assetgraph.Node, detailed bool) string {
	leaf := n.Key.Leaf()
	if !detailed {
		return leaf
	}
	parts := []string{leaf, "group: " + n.Group()}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT to SVG via Graphviz, normalizing the root svg
// element so the output scales in embedding contexts.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
