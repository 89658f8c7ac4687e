package explorer

import (
	"context"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/layout"
	"github.com/jruhland/assetscope/pkg/store"
)

// Modifiers describe the modifier keys held during a click.
type Modifiers struct {
	Toggle bool // secondary modifier: toggle membership
	Range  bool // shift: extend selection along a connecting path
}

// NavDirection is an arrow-key navigation direction.
type NavDirection int

const (
	NavUp NavDirection = iota
	NavDown
	NavLeft
	NavRight
)

// Path is the explorer state exposed to embedding hosts: the selected
// tokens plus the active query string.
type Path struct {
	Tokens []string
	Query  string
}

// LayoutResult carries an asynchronously computed layout back to the
// interaction loop. Signature identifies the request it answers.
type LayoutResult struct {
	Layout    *layout.Layout
	Err       error
	Signature string
}

// Options configure an explorer instance.
type Options struct {
	// View and Scope key persisted view state; distinct scopes never
	// share expansion state.
	View  string
	Scope string
	Query string

	Layout layout.Options
	Engine layout.Engine
	Store  store.Store
	Logger *log.Logger

	// Screen size for the viewport.
	Width, Height float64

	// OnPathChange is invoked after user-driven selection changes with a
	// replace-vs-push navigation-history hint (replace=true means the
	// host should not grow its history stack).
	OnPathChange func(p Path, replace bool)

	// OnLocateNode is invoked when the user targets a token with no
	// backing node in the current graph; the host navigates to the
	// token's owning context. Not an error.
	OnLocateNode func(token string)

	// OnFocusCanvas is invoked when input focus should move to the
	// canvas (after a single-selection recenter).
	OnFocusCanvas func()
}

// Explorer composes the graph model with the selection, expansion,
// viewport, and layout-sync controllers and translates input events into
// controller operations. All mutation happens synchronously on the
// caller's event loop; only layout computation runs asynchronously, and
// its results re-enter through [Explorer.Layouts] + [Explorer.ApplyLayout].
type Explorer struct {
	id    string
	graph *assetgraph.Graph
	err   error

	sel  *Selection
	exp  *Expansion
	vp   *Viewport
	sync *LayoutSync

	engine  layout.Engine
	layOpts layout.Options
	logger  *log.Logger
	opts    Options

	latestSig string
	results   chan LayoutResult
}

// New creates an explorer for a graph. A cyclic graph puts the explorer
// into a terminal error state for this graph: Err reports the cycle and
// all rendering and layout operations refuse to run.
func New(ctx context.Context, g *assetgraph.Graph, opts Options) *Explorer {
	if opts.Engine == nil {
		opts.Engine = &layout.Layered{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.View == "" {
		opts.View = "explorer"
	}
	if opts.Width == 0 {
		opts.Width = 1200
	}
	if opts.Height == 0 {
		opts.Height = 800
	}

	e := &Explorer{
		id:      uuid.NewString(),
		sel:     NewSelection(),
		vp:      NewViewport(opts.Width, opts.Height),
		sync:    &LayoutSync{},
		engine:  opts.Engine,
		layOpts: opts.Layout,
		logger:  opts.Logger,
		opts:    opts,
		results: make(chan LayoutResult, 8),
	}
	e.exp = NewExpansion(ctx, opts.Store, store.ViewKey{
		View:  opts.View,
		Scope: opts.Scope,
		Field: "expanded-groups",
	})
	e.SetGraph(g)
	return e
}

// ID returns the unique instance identifier.
func (e *Explorer) ID() string { return e.id }

// Err returns the terminal error for the current graph (a cycle), or nil.
func (e *Explorer) Err() error { return e.err }

// Graph returns the current graph.
func (e *Explorer) Graph() *assetgraph.Graph { return e.graph }

// Selection returns the selection controller.
func (e *Explorer) Selection() *Selection { return e.sel }

// Expansion returns the expansion controller.
func (e *Explorer) Expansion() *Expansion { return e.exp }

// Viewport returns the viewport controller.
func (e *Explorer) Viewport() *Viewport { return e.vp }

// Layout returns the currently displayed layout, nil before the first
// result arrives. While a newer request is outstanding the previous
// layout stays displayed rather than blanking the view.
func (e *Explorer) Layout() *layout.Layout { return e.sync.Current() }

// Loading reports whether a layout request is outstanding with nothing
// displayed yet - the only situation that warrants a loading indicator.
func (e *Explorer) Loading() bool {
	return e.latestSig != "" && e.sync.Current() == nil
}

// SetGraph replaces the graph, running the mandatory cycle check.
// Selection and expansion state carry over; a cyclic graph is a terminal
// error state until a valid graph replaces it.
func (e *Explorer) SetGraph(g *assetgraph.Graph) {
	e.graph = g
	e.err = nil
	if g != nil {
		e.err = g.Validate()
	}
}

// Path returns the explorer path exposed to hosts.
func (e *Explorer) Path() Path {
	return Path{Tokens: e.sel.Tokens(), Query: e.opts.Query}
}

// =============================================================================
// Input events
// =============================================================================

// Click handles a click on a node token.
// Plain click selects just the token; the toggle modifier toggles it; the
// range modifier extends the selection along a connecting path when a
// focus exists, else toggles. A token with no backing node delegates to
// OnLocateNode instead of mutating the selection.
func (e *Explorer) Click(token string, mods Modifiers) {
	if e.err != nil {
		return
	}
	if _, ok := e.graph.Node(token); !ok {
		if e.opts.OnLocateNode != nil {
			e.opts.OnLocateNode(token)
		}
		return
	}

	switch {
	case mods.Range && e.sel.Focus() != "":
		e.sel.ExtendRange(token, e.graph)
	case mods.Range || mods.Toggle:
		e.sel.Toggle(token)
	default:
		e.sel.SelectSingle(token)
	}
	e.pathChanged(false)
}

// ClickBackground clears the entire selection.
func (e *Explorer) ClickBackground() {
	if e.err != nil {
		return
	}
	e.sel.Clear()
	e.pathChanged(false)
}

// ClickGroup handles a click on a group. With the toggle modifier the
// selection of every member node is toggled as a batch, by set
// membership: if all members are selected they all deselect, otherwise
// the missing ones join. A plain click toggles the group's expansion.
func (e *Explorer) ClickGroup(ctx context.Context, groupID string, mods Modifiers) {
	if e.err != nil {
		return
	}
	members := e.graph.GroupMembers(groupID)

	if mods.Toggle {
		all := true
		for _, token := range members {
			if !e.sel.Contains(token) {
				all = false
				break
			}
		}
		for _, token := range members {
			if all {
				e.sel.Toggle(token) // all present: every toggle removes
			} else if !e.sel.Contains(token) {
				e.sel.Toggle(token)
			}
		}
		e.pathChanged(false)
		return
	}

	if e.exp.IsExpanded(groupID) {
		e.exp.Collapse(ctx, groupID)
	} else {
		e.exp.Expand(ctx, groupID)
	}
	e.Relayout(ctx)
}

// DoubleClickNode zooms to a node at increased scale, animated.
func (e *Explorer) DoubleClickNode(token string) {
	l := e.Layout()
	if e.err != nil || l == nil {
		return
	}
	if nb, ok := l.Nodes[token]; ok {
		e.vp.ZoomToBox(nb.Box, 1.0, true)
	}
}

// DoubleClickGroup zooms to fit a group's bounds, animated.
func (e *Explorer) DoubleClickGroup(groupID string) {
	l := e.Layout()
	if e.err != nil || l == nil {
		return
	}
	if gb, ok := l.Groups[groupID]; ok {
		e.vp.ZoomToGroup(gb.Box, true, 0)
	}
}

// DoubleClickBackground autocenters the whole graph, animated.
func (e *Explorer) DoubleClickBackground() {
	l := e.Layout()
	if e.err != nil || l == nil {
		return
	}
	e.vp.Autocenter(l.Width, l.Height, true)
}

// MoveFocus moves the focus to the nearest node in the given direction,
// searching only layout nodes with a backing graph definition (external
// placeholders are skipped). The move selects the node and centers on it,
// animated, reporting a history replacement to the host.
func (e *Explorer) MoveFocus(dir NavDirection) {
	l := e.Layout()
	if e.err != nil || l == nil {
		return
	}

	from, ok := e.focusBox(l)
	if !ok {
		return
	}
	fc := from.Center()

	bestDist := math.Inf(1)
	var bestToken string
	var bestBox layout.Box
	for token, nb := range l.Nodes {
		if nb.External || token == e.sel.Focus() {
			continue
		}
		if _, backed := e.graph.Node(token); !backed {
			continue
		}
		c := nb.Box.Center()
		dx, dy := c.X-fc.X, c.Y-fc.Y
		if !inDirection(dx, dy, dir) {
			continue
		}
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			bestToken = token
			bestBox = nb.Box
		}
	}
	if bestToken == "" {
		return
	}

	e.sel.SelectSingle(bestToken)
	e.vp.ZoomToNode(bestBox, true)
	e.pathChanged(true)
}

// focusBox returns the box to navigate from: the focus node if it is in
// the layout, else the viewport center.
func (e *Explorer) focusBox(l *layout.Layout) (layout.Box, bool) {
	if nb, ok := l.Nodes[e.sel.Focus()]; ok {
		return nb.Box, true
	}
	if l.NodeCount() == 0 {
		return layout.Box{}, false
	}
	c := e.vp.VisibleRect().Center()
	return layout.Box{X: c.X, Y: c.Y}, true
}

func inDirection(dx, dy float64, dir NavDirection) bool {
	switch dir {
	case NavUp:
		return dy < 0 && math.Abs(dy) >= math.Abs(dx)
	case NavDown:
		return dy > 0 && math.Abs(dy) >= math.Abs(dx)
	case NavLeft:
		return dx < 0 && math.Abs(dx) > math.Abs(dy)
	case NavRight:
		return dx > 0 && math.Abs(dx) > math.Abs(dy)
	}
	return false
}

// ExpandGroup expands a group and schedules a re-layout.
func (e *Explorer) ExpandGroup(ctx context.Context, groupID string) {
	if e.err != nil {
		return
	}
	e.exp.Expand(ctx, groupID)
	e.Relayout(ctx)
}

// CollapseGroup collapses a group and schedules a re-layout.
func (e *Explorer) CollapseGroup(ctx context.Context, groupID string) {
	if e.err != nil {
		return
	}
	e.exp.Collapse(ctx, groupID)
	e.Relayout(ctx)
}

// ToggleAllGroups sets every group's expansion per the predicate and
// schedules a re-layout.
func (e *Explorer) ToggleAllGroups(ctx context.Context, expand func(id string) bool) {
	if e.err != nil {
		return
	}
	ids := make([]string, 0, e.graph.GroupCount())
	for id := range e.graph.Groups() {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	e.exp.ToggleAll(ctx, ids, expand)
	e.Relayout(ctx)
}

// =============================================================================
// Layout lifecycle
// =============================================================================

// Relayout snapshots the current inputs and launches an asynchronous
// layout computation. The request's signature becomes the latest one;
// any result carrying an older signature will be discarded on arrival.
// Requests are not cancelled mid-flight - a newer result simply wins.
func (e *Explorer) Relayout(ctx context.Context) {
	if e.err != nil || e.graph == nil {
		return
	}
	g := e.graph
	expanded := e.exp.ExpandedIDs()
	opts := e.layOpts
	sig := layout.Signature(g, expanded, opts)
	e.latestSig = sig

	go func() {
		l, err := e.engine.Compute(ctx, g, expanded, opts)
		res := LayoutResult{Layout: l, Err: err, Signature: sig}
		select {
		case e.results <- res:
		default:
			// Receiver lagging: the result is already superseded.
		}
	}()
}

// Layouts returns the channel on which asynchronous layout results
// arrive. The owner of the event loop forwards each result to
// [Explorer.ApplyLayout].
func (e *Explorer) Layouts() <-chan LayoutResult { return e.results }

// ApplyLayout applies an arrived layout result on the interaction loop.
// Results whose signature does not match the most recently issued request
// are discarded silently - they never mutate viewport or rendering.
// Failed computations keep the previous layout displayed.
func (e *Explorer) ApplyLayout(res LayoutResult) (SyncAction, bool) {
	if res.Signature != e.latestSig {
		e.logger.Debug("discarding superseded layout", "signature", short(res.Signature))
		return SyncSkipped, false
	}
	if res.Err != nil {
		e.logger.Warn("layout failed, keeping previous", "err", res.Err)
		return SyncSkipped, false
	}
	action := e.sync.Apply(res.Layout, e.sel, e.exp, e.vp, e.opts.OnFocusCanvas)
	return action, action != SyncSkipped
}

// =============================================================================
// Visibility culling
// =============================================================================

// VisibleNodes returns the layout nodes intersecting the current
// viewport rectangle, sorted by token. Recomputed on every call so it
// always reflects the latest viewport state.
func (e *Explorer) VisibleNodes() []layout.NodeBox {
	l := e.Layout()
	if e.err != nil || l == nil {
		return nil
	}
	rect := e.vp.VisibleRect()
	var out []layout.NodeBox
	for _, nb := range l.Nodes {
		if nb.Box.Intersects(rect) {
			out = append(out, nb)
		}
	}
	slices.SortFunc(out, func(a, b layout.NodeBox) int {
		if a.Token < b.Token {
			return -1
		}
		if a.Token > b.Token {
			return 1
		}
		return 0
	})
	return out
}

// VisibleGroups returns the group boxes intersecting the viewport,
// sorted by ID.
func (e *Explorer) VisibleGroups() []layout.GroupBox {
	l := e.Layout()
	if e.err != nil || l == nil {
		return nil
	}
	rect := e.vp.VisibleRect()
	var out []layout.GroupBox
	for _, gb := range l.Groups {
		if gb.Box.Intersects(rect) {
			out = append(out, gb)
		}
	}
	slices.SortFunc(out, func(a, b layout.GroupBox) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// VisibleEdges returns the edge routes whose bounding box intersects the
// viewport.
func (e *Explorer) VisibleEdges() []layout.EdgeRoute {
	l := e.Layout()
	if e.err != nil || l == nil {
		return nil
	}
	rect := e.vp.VisibleRect()
	var out []layout.EdgeRoute
	for _, er := range l.Edges {
		if routeBounds(er).Intersects(rect) {
			out = append(out, er)
		}
	}
	return out
}

func routeBounds(er layout.EdgeRoute) layout.Box {
	if len(er.Points) == 0 {
		return layout.Box{}
	}
	minX, minY := er.Points[0].X, er.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range er.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	// Inflate so perfectly straight segments still have area to test.
	return layout.Box{X: minX - 1, Y: minY - 1, Width: maxX - minX + 2, Height: maxY - minY + 2}
}

func (e *Explorer) pathChanged(replace bool) {
	if e.opts.OnPathChange != nil {
		e.opts.OnPathChange(e.Path(), replace)
	}
}

func short(sig string) string {
	if len(sig) > 12 {
		return sig[:12]
	}
	return sig
}
