package explorer

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/jruhland/assetscope/pkg/store"
)

// Expansion tracks which hierarchical groups are currently expanded.
//
// State is persisted through the store on every mutation, keyed by a
// typed [store.ViewKey], so it survives remounts of the same view but is
// never shared between distinct view contexts. A store read failure or a
// malformed payload silently yields empty state - persistence problems
// must never block rendering.
//
// Expanding or collapsing also records a one-shot focus-group hint that
// LayoutSync consumes to recenter on the group once the next layout
// arrives.
type Expansion struct {
	store    store.Store
	key      store.ViewKey
	expanded map[string]bool

	// focusGroup is consumed exactly once by TakeFocusGroup.
	focusGroup string
	hasFocus   bool
}

// NewExpansion creates an expansion controller, restoring persisted state
// for the given view key.
func NewExpansion(ctx context.Context, st store.Store, key store.ViewKey) *Expansion {
	e := &Expansion{
		store:    st,
		key:      key,
		expanded: make(map[string]bool),
	}
	if st == nil {
		e.store = store.NewMemory()
		return e
	}

	data, hit, err := st.Get(ctx, key.Key())
	if err != nil || !hit {
		return e
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return e // malformed persisted state reads as empty
	}
	for _, id := range ids {
		e.expanded[id] = true
	}
	return e
}

// IsExpanded reports whether the group is expanded.
func (e *Expansion) IsExpanded(groupID string) bool { return e.expanded[groupID] }

// ExpandedIDs returns the expanded group IDs, sorted.
func (e *Expansion) ExpandedIDs() []string {
	ids := make([]string, 0, len(e.expanded))
	for id := range e.expanded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Expand marks the group expanded, persists, and records the focus hint.
func (e *Expansion) Expand(ctx context.Context, groupID string) {
	e.expanded[groupID] = true
	e.setFocus(groupID)
	e.persist(ctx)
}

// Collapse marks the group collapsed, persists, and records the focus hint.
func (e *Expansion) Collapse(ctx context.Context, groupID string) {
	delete(e.expanded, groupID)
	e.setFocus(groupID)
	e.persist(ctx)
}

// ToggleAll sets each group's expansion to expand(id), persisting once.
// No focus hint is recorded for bulk changes.
func (e *Expansion) ToggleAll(ctx context.Context, groupIDs []string, expand func(id string) bool) {
	for _, id := range groupIDs {
		if expand(id) {
			e.expanded[id] = true
		} else {
			delete(e.expanded, id)
		}
	}
	e.persist(ctx)
}

// TakeFocusGroup consumes and clears the pending focus-group hint.
// The second call after a single Expand reports no hint.
func (e *Expansion) TakeFocusGroup() (string, bool) {
	if !e.hasFocus {
		return "", false
	}
	id := e.focusGroup
	e.focusGroup = ""
	e.hasFocus = false
	return id, true
}

func (e *Expansion) setFocus(groupID string) {
	e.focusGroup = groupID
	e.hasFocus = true
}

func (e *Expansion) persist(ctx context.Context) {
	data, err := json.Marshal(e.ExpandedIDs())
	if err != nil {
		return
	}
	_ = e.store.Set(ctx, e.key.Key(), data, store.TTLViewState)
}
