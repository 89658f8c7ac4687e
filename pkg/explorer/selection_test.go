package explorer

import (
	"slices"
	"testing"

	"github.com/jruhland/assetscope/pkg/assetgraph"
)

func chainGraph(t *testing.T, ids []string, edges [][2]string) *assetgraph.Graph {
	t.Helper()
	g := assetgraph.New()
	for _, id := range ids {
		if err := g.AddNode(assetgraph.Node{Key: assetgraph.MustKey(id)}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		g.AddEdge(assetgraph.Edge{From: e[0], To: e[1]})
	}
	return g
}

func TestSelectSingle(t *testing.T) {
	s := NewSelection()
	s.SelectSingle("a")
	s.SelectSingle("b")

	if got := s.Tokens(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Tokens = %v, want [b]", got)
	}
	if s.Focus() != "b" {
		t.Errorf("Focus = %q, want b", s.Focus())
	}
}

func TestToggle(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("b")
	s.Toggle("c")

	// Toggling off a middle entry removes exactly it, preserving order.
	s.Toggle("b")
	if got := s.Tokens(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Tokens = %v, want [a c]", got)
	}
	if s.Focus() != "c" {
		t.Errorf("Focus = %q, want c (unchanged)", s.Focus())
	}

	// Toggling off the focus token moves focus to the last remaining.
	s.Toggle("c")
	if s.Focus() != "a" {
		t.Errorf("Focus = %q, want a", s.Focus())
	}

	s.Toggle("a")
	if s.Len() != 0 || s.Focus() != "" {
		t.Errorf("after removing all: len=%d focus=%q, want empty", s.Len(), s.Focus())
	}
}

func TestExtendRangePathOrder(t *testing.T) {
	// a → b → c → d: shift-selecting d from a must append the whole path.
	g := chainGraph(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "d"},
	})

	s := NewSelection()
	s.SelectSingle("a")
	s.ExtendRange("d", g)

	want := []string{"a", "b", "c", "d"}
	if got := s.Tokens(); !slices.Equal(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
	if s.Focus() != "d" {
		t.Errorf("Focus = %q, want d", s.Focus())
	}
}

func TestExtendRangePreservesExisting(t *testing.T) {
	g := chainGraph(t, []string{"x", "a", "b", "c"}, [][2]string{
		{"a", "b"}, {"b", "c"},
	})

	s := NewSelection()
	s.Toggle("x")
	s.Toggle("a")
	s.ExtendRange("c", g)

	want := []string{"x", "a", "b", "c"}
	if got := s.Tokens(); !slices.Equal(got, want) {
		t.Errorf("Tokens = %v, want %v (existing entries preserved)", got, want)
	}
}

func TestExtendRangeUpstream(t *testing.T) {
	// Focus is downstream of the target: the reverse path is used and
	// appended from the focus toward the target.
	g := chainGraph(t, []string{"a", "b", "c"}, [][2]string{
		{"a", "b"}, {"b", "c"},
	})

	s := NewSelection()
	s.SelectSingle("c")
	s.ExtendRange("a", g)

	want := []string{"c", "b", "a"}
	if got := s.Tokens(); !slices.Equal(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}

func TestExtendRangeNoPathFallsBack(t *testing.T) {
	g := chainGraph(t, []string{"a", "b", "z"}, [][2]string{{"a", "b"}})

	s := NewSelection()
	s.SelectSingle("a")
	s.ExtendRange("z", g)

	want := []string{"a", "z"}
	if got := s.Tokens(); !slices.Equal(got, want) {
		t.Errorf("Tokens = %v, want %v (fallback adds just the target)", got, want)
	}
	if s.Focus() != "z" {
		t.Errorf("Focus = %q, want z", s.Focus())
	}
}

func TestExtendRangeTriesEarlierSelections(t *testing.T) {
	// Focus "q" has no path to the target, but an earlier selection does.
	g := chainGraph(t, []string{"a", "b", "c", "q"}, [][2]string{
		{"a", "b"}, {"b", "c"},
	})

	s := NewSelection()
	s.Toggle("a")
	s.Toggle("q") // focus is now q
	s.ExtendRange("c", g)

	want := []string{"a", "q", "b", "c"}
	if got := s.Tokens(); !slices.Equal(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}

func TestSetDeduplicates(t *testing.T) {
	s := NewSelection()
	s.Set([]string{"a", "b", "a", "c"})

	if got := s.Tokens(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Tokens = %v, want [a b c]", got)
	}
	if s.Focus() != "c" {
		t.Errorf("Focus = %q, want c", s.Focus())
	}
}
