package assetgraph

import (
	"errors"
	"slices"
)

var (
	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same token already exists. Tokens must be unique within a graph.
	ErrDuplicateNode = errors.New("duplicate node token")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a directed cycle
	// is detected. Cycles are found using depth-first search with
	// white/gray/black coloring. A cyclic graph must not be rendered.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// GroupUngrouped is the sentinel group for nodes without a group attribute.
// Every node belongs to exactly one group, this one by default.
const GroupUngrouped = "__ungrouped__"

// Node is a vertex in the asset graph. The definition payload in Meta is
// opaque to the explorer and is carried through serialization untouched.
type Node struct {
	Key     Key
	GroupID string         // empty means GroupUngrouped
	Meta    map[string]any // opaque definition payload
}

// Group returns the node's effective group, substituting the ungrouped
// sentinel for an empty group attribute.
func (n *Node) Group() string {
	if n.GroupID == "" {
		return GroupUngrouped
	}
	return n.GroupID
}

// Edge is a directed connection between two asset tokens. Edges may
// reference tokens that have no backing node in the graph; those targets
// are external references and get a placeholder rendering path.
type Edge struct {
	From string
	To   string
}

// Graph is the asset dependency graph: a token-indexed node set plus the
// edge list. Graphs are built with AddNode/AddEdge and then treated as
// immutable by the explorer; derived projections (grouping, external
// references) are memoized and invalidated only by mutation.
//
// Graph is not safe for concurrent mutation without external
// synchronization.
type Graph struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string

	// memoized projections, nil until first use, reset on mutation
	groups   map[string][]string
	external []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node, indexed by its key token.
// Returns ErrEmptyKey for a zero key or ErrDuplicateNode if the token is
// already present.
func (g *Graph) AddNode(n Node) error {
	token := n.Key.Token()
	if token == "" {
		return ErrEmptyKey
	}
	if _, exists := g.nodes[token]; exists {
		return ErrDuplicateNode
	}
	if n.Meta == nil {
		n.Meta = map[string]any{}
	}
	g.nodes[token] = &n
	g.invalidate()
	return nil
}

// AddEdge adds a directed edge between two tokens. Unlike nodes, edge
// endpoints are not required to exist: a missing endpoint marks an
// external reference rather than an error.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	g.invalidate()
}

func (g *Graph) invalidate() {
	g.groups = nil
	g.external = nil
}

// Node returns the node for a token, or nil and false if the token has no
// backing node (an external reference or an unknown target).
func (g *Graph) Node(token string) (*Node, bool) {
	n, ok := g.nodes[token]
	return n, ok
}

// Nodes returns all nodes sorted by token for deterministic iteration.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		at, bt := a.Key.Token(), b.Key.Token()
		if at < bt {
			return -1
		}
		if at > bt {
			return 1
		}
		return 0
	})
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// GroupOf returns the effective group of a token, or the ungrouped
// sentinel if the token has no backing node.
func (g *Graph) GroupOf(token string) string {
	if n, ok := g.nodes[token]; ok {
		return n.Group()
	}
	return GroupUngrouped
}

// Children returns tokens this token has edges to. Read-only view.
func (g *Graph) Children(token string) []string { return g.outgoing[token] }

// Parents returns tokens with edges to this token. Read-only view.
func (g *Graph) Parents(token string) []string { return g.incoming[token] }

// NodeCount returns the number of nodes with backing definitions.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, external references included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// GroupCount returns the number of distinct groups.
func (g *Graph) GroupCount() int { return len(g.Groups()) }

// Groups returns the memoized projection from group ID to sorted member
// tokens. The projection is computed once per graph value and recomputed
// only after mutation.
func (g *Graph) Groups() map[string][]string {
	if g.groups == nil {
		g.groups = make(map[string][]string)
		for token, n := range g.nodes {
			group := n.Group()
			g.groups[group] = append(g.groups[group], token)
		}
		for _, members := range g.groups {
			slices.Sort(members)
		}
	}
	return g.groups
}

// GroupMembers returns the sorted member tokens of one group.
func (g *Graph) GroupMembers(groupID string) []string { return g.Groups()[groupID] }

// ExternalTokens returns the sorted tokens referenced by edges but absent
// from the node set. These render as placeholder boxes and are excluded
// from keyboard navigation.
func (g *Graph) ExternalTokens() []string {
	if g.external == nil {
		seen := make(map[string]bool)
		for _, e := range g.edges {
			for _, token := range []string{e.From, e.To} {
				if _, ok := g.nodes[token]; !ok && !seen[token] {
					seen[token] = true
					g.external = append(g.external, token)
				}
			}
		}
		slices.Sort(g.external)
		if g.external == nil {
			g.external = []string{}
		}
	}
	return g.external
}

// HasCycle reports whether the graph contains a directed cycle.
func (g *Graph) HasCycle() bool {
	return errors.Is(g.Validate(), ErrGraphHasCycle)
}

// Validate checks that the graph is acyclic and returns ErrGraphHasCycle
// otherwise. The check must pass before any layout or interaction is
// permitted; a failing graph is a terminal error state for that render
// pass. Runs in O(N+E) using iterative depth-first search.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))

	// Iterative DFS so deep chains don't exhaust the stack.
	type frame struct {
		token string
		next  int
	}

	for start := range g.nodes {
		if color[start] != white {
			continue
		}
		stack := []frame{{token: start}}
		color[start] = gray
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			children := g.outgoing[f.token]
			advanced := false
			for f.next < len(children) {
				child := children[f.next]
				f.next++
				if _, ok := g.nodes[child]; !ok {
					continue // external reference, not part of the cycle check
				}
				switch color[child] {
				case gray:
					return ErrGraphHasCycle
				case white:
					color[child] = gray
					stack = append(stack, frame{token: child})
					advanced = true
				}
				if advanced {
					break
				}
			}
			if !advanced {
				color[f.token] = black
				stack = stack[:len(stack)-1]
			}
		}
	}
	return nil
}
