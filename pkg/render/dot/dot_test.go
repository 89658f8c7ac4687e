package dot

import (
	"strings"
	"testing"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/layout"
)

func buildGraph(t *testing.T) *assetgraph.Graph {
	t.Helper()
	g := assetgraph.New()
	add := func(id, group string) {
		t.Helper()
		if err := g.AddNode(assetgraph.Node{Key: assetgraph.MustKey(id), GroupID: group}); err != nil {
			t.Fatal(err)
		}
	}
	add("a", "g1")
	add("b", "g1")
	add("c", "g2")
	g.AddEdge(assetgraph.Edge{From: "a", To: "b"})
	g.AddEdge(assetgraph.Edge{From: "a", To: "c"})
	g.AddEdge(assetgraph.Edge{From: "b", To: "c"})
	g.AddEdge(assetgraph.Edge{From: "c", To: "warehouse/ext"})
	return g
}

func TestToDOTCollapsedGroups(t *testing.T) {
	out := ToDOT(buildGraph(t), nil, Options{})

	if strings.Contains(out, "subgraph") {
		t.Error("no clusters expected with everything collapsed")
	}
	if !strings.Contains(out, `"group:g1" [label="g1 (2)"`) {
		t.Errorf("missing collapsed g1 box with member count:\n%s", out)
	}
	// The two member edges a->c and b->c collapse into one group edge.
	if got := strings.Count(out, `"group:g1" -> "group:g2"`); got != 1 {
		t.Errorf("group edge appears %d times, want 1 (de-duplicated):\n%s", got, out)
	}
	// Intra-group a->b disappears entirely.
	if strings.Contains(out, `"a" ->`) || strings.Contains(out, `-> "b"`) {
		t.Errorf("member tokens leaked into a collapsed rendering:\n%s", out)
	}
}

func TestToDOTExpandedGroupBecomesCluster(t *testing.T) {
	out := ToDOT(buildGraph(t), []string{"g1"}, Options{})

	if !strings.Contains(out, `subgraph "cluster_g1"`) {
		t.Errorf("expanded group should emit a cluster:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "b"`) {
		t.Errorf("intra-group edge should render inside the expanded group:\n%s", out)
	}
	// g2 stays collapsed: member edges target its box.
	if !strings.Contains(out, `"a" -> "group:g2"`) || !strings.Contains(out, `"b" -> "group:g2"`) {
		t.Errorf("edges into the collapsed group should target its box:\n%s", out)
	}
}

func TestToDOTExternalReference(t *testing.T) {
	out := ToDOT(buildGraph(t), nil, Options{})

	if !strings.Contains(out, `"warehouse/ext"`) || !strings.Contains(out, "dashed") {
		t.Errorf("external token should render as a dashed placeholder:\n%s", out)
	}
	if !strings.Contains(out, `"group:g2" -> "warehouse/ext"`) {
		t.Errorf("edge to the external token should survive collapsing:\n%s", out)
	}
}

func TestToDOTDirection(t *testing.T) {
	tb := ToDOT(buildGraph(t), nil, Options{})
	lr := ToDOT(buildGraph(t), nil, Options{Direction: layout.DirectionLR})

	if !strings.Contains(tb, "rankdir=TB") {
		t.Error("default direction should be TB")
	}
	if !strings.Contains(lr, "rankdir=LR") {
		t.Error("DirectionLR should emit rankdir=LR")
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	g := assetgraph.New()
	err := g.AddNode(assetgraph.Node{
		Key:     assetgraph.MustKey("raw", "events"),
		GroupID: "ingest",
		Meta:    map[string]any{"owner": "data-eng"},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := ToDOT(g, []string{"ingest"}, Options{Detailed: true})
	if !strings.Contains(out, "owner: data-eng") {
		t.Errorf("detailed label should include metadata:\n%s", out)
	}

	plain := ToDOT(g, []string{"ingest"}, Options{})
	if strings.Contains(plain, "owner") {
		t.Errorf("plain label should omit metadata:\n%s", plain)
	}
}
