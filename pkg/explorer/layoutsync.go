package explorer

import (
	"github.com/jruhland/assetscope/pkg/layout"
)

// SyncAction reports which branch of the layout transition chain fired.
type SyncAction int

const (
	// SyncSkipped: the layout was reference-identical to the previous one.
	SyncSkipped SyncAction = iota
	// SyncFocusGroup: recentered on the pending focus group, hint cleared.
	SyncFocusGroup
	// SyncFocusNode: recentered on the single selected node.
	SyncFocusNode
	// SyncAutocenter: topology changed materially, whole view recentered.
	SyncAutocenter
	// SyncUntouched: cosmetic relayout with identical topology, viewport
	// left alone.
	SyncUntouched
)

// LayoutSync reconciles newly arrived layouts with the view controllers.
// Exactly one branch of the priority chain fires per transition:
//
//  1. reference-identical layout → no-op
//  2. pending focus-group hint, group expanded in the new layout →
//     recenter on the group, unanimated, consume the hint
//  3. exactly one node selected and present → recenter on it, unanimated,
//     move input focus to the canvas
//  4. node/edge/group counts changed → autocenter, unanimated
//  5. otherwise → leave the viewport untouched
//
// Programmatic recentering here is never animated: a new layout arriving
// mid-interaction must not cause a gliding jump.
type LayoutSync struct {
	prev *layout.Layout
}

// Apply runs the transition chain for a new layout. focusCanvas is
// invoked when branch 3 fires and may be nil.
func (s *LayoutSync) Apply(l *layout.Layout, sel *Selection, exp *Expansion, vp *Viewport, focusCanvas func()) SyncAction {
	if l == s.prev {
		return SyncSkipped
	}
	prev := s.prev
	s.prev = l

	// The hint is consumed here regardless of outcome - a stale hint must
	// not fire on some later unrelated transition.
	if groupID, ok := exp.TakeFocusGroup(); ok {
		if gb, present := l.Groups[groupID]; present && gb.Expanded {
			vp.ZoomToGroup(gb.Box, false, 0)
			return SyncFocusGroup
		}
	}

	if sel.Len() == 1 {
		if nb, present := l.Nodes[sel.Focus()]; present {
			vp.ZoomToNode(nb.Box, false)
			if focusCanvas != nil {
				focusCanvas()
			}
			return SyncFocusNode
		}
	}

	if !l.SameCounts(prev) {
		vp.Autocenter(l.Width, l.Height, false)
		return SyncAutocenter
	}

	return SyncUntouched
}

// Current returns the most recently applied layout, or nil before the
// first one arrives.
func (s *LayoutSync) Current() *layout.Layout { return s.prev }
