package assetgraph

import (
	"errors"
	"testing"
)

func buildGraph(t *testing.T, nodes []Node, edges []Edge) *Graph {
	t.Helper()
	g := New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.Key.Token(), err)
		}
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []string
		edges     []Edge
		wantCycle bool
	}{
		{
			name:  "Empty",
			nodes: nil,
		},
		{
			name:  "Chain",
			nodes: []string{"a", "b", "c"},
			edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
		},
		{
			name:  "Diamond",
			nodes: []string{"a", "b", "c", "d"},
			edges: []Edge{
				{From: "a", To: "b"}, {From: "a", To: "c"},
				{From: "b", To: "d"}, {From: "c", To: "d"},
			},
		},
		{
			name:      "SelfLoop",
			nodes:     []string{"a"},
			edges:     []Edge{{From: "a", To: "a"}},
			wantCycle: true,
		},
		{
			name:      "BackEdge",
			nodes:     []string{"a", "b", "c"},
			edges:     []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}},
			wantCycle: true,
		},
		{
			name:  "ExternalRefIgnored",
			nodes: []string{"a"},
			edges: []Edge{{From: "a", To: "missing"}, {From: "missing", To: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nodes []Node
			for _, id := range tt.nodes {
				nodes = append(nodes, Node{Key: MustKey(id)})
			}
			g := buildGraph(t, nodes, tt.edges)

			err := g.Validate()
			if tt.wantCycle {
				if !errors.Is(err, ErrGraphHasCycle) {
					t.Errorf("Validate = %v, want ErrGraphHasCycle", err)
				}
				if !g.HasCycle() {
					t.Error("HasCycle = false, want true")
				}
			} else {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				if g.HasCycle() {
					t.Error("HasCycle = true, want false")
				}
			}
		})
	}
}

func TestGroups(t *testing.T) {
	g := buildGraph(t, []Node{
		{Key: MustKey("a"), GroupID: "g1"},
		{Key: MustKey("b"), GroupID: "g1"},
		{Key: MustKey("c"), GroupID: "g2"},
		{Key: MustKey("d")},
	}, nil)

	groups := g.Groups()
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if got := groups["g1"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("g1 members = %v, want [a b]", got)
	}
	if got := groups[GroupUngrouped]; len(got) != 1 || got[0] != "d" {
		t.Errorf("ungrouped members = %v, want [d]", got)
	}
	if got := g.GroupOf("c"); got != "g2" {
		t.Errorf("GroupOf(c) = %q, want g2", got)
	}
	if got := g.GroupOf("nope"); got != GroupUngrouped {
		t.Errorf("GroupOf(nope) = %q, want ungrouped sentinel", got)
	}

	// Memoized projection must be invalidated by mutation.
	if err := g.AddNode(Node{Key: MustKey("e"), GroupID: "g2"}); err != nil {
		t.Fatal(err)
	}
	if got := g.GroupMembers("g2"); len(got) != 2 {
		t.Errorf("g2 members after mutation = %v, want 2 entries", got)
	}
}

func TestExternalTokens(t *testing.T) {
	g := buildGraph(t, []Node{
		{Key: MustKey("a")},
		{Key: MustKey("b")},
	}, []Edge{
		{From: "a", To: "b"},
		{From: "a", To: "other/system"},
		{From: "upstream", To: "a"},
	})

	ext := g.ExternalTokens()
	if len(ext) != 2 || ext[0] != "other/system" || ext[1] != "upstream" {
		t.Errorf("ExternalTokens = %v, want [other/system upstream]", ext)
	}
}

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("AddNode zero key = %v, want ErrEmptyKey", err)
	}
	if err := g.AddNode(Node{Key: MustKey("a")}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{Key: MustKey("a")}); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate AddNode = %v, want ErrDuplicateNode", err)
	}
}
