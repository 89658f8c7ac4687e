package explorer

import (
	"context"
	"slices"
	"testing"

	"github.com/jruhland/assetscope/pkg/store"
)

func TestExpansionBasics(t *testing.T) {
	ctx := context.Background()
	e := NewExpansion(ctx, store.NewMemory(), store.ViewKey{View: "explorer", Scope: "s"})

	if e.IsExpanded("g1") {
		t.Error("fresh controller should have nothing expanded")
	}

	e.Expand(ctx, "g1")
	e.Expand(ctx, "g2")
	if !e.IsExpanded("g1") || !e.IsExpanded("g2") {
		t.Error("Expand should mark groups expanded")
	}

	e.Collapse(ctx, "g1")
	if e.IsExpanded("g1") {
		t.Error("Collapse should clear g1")
	}
	if got := e.ExpandedIDs(); !slices.Equal(got, []string{"g2"}) {
		t.Errorf("ExpandedIDs = %v, want [g2]", got)
	}
}

func TestExpansionPersistsAcrossRemounts(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	key := store.ViewKey{View: "explorer", Scope: "team/a", Field: "expanded-groups"}

	e1 := NewExpansion(ctx, st, key)
	e1.Expand(ctx, "g1")
	e1.Expand(ctx, "g3")

	// Same view key: state restored.
	e2 := NewExpansion(ctx, st, key)
	if got := e2.ExpandedIDs(); !slices.Equal(got, []string{"g1", "g3"}) {
		t.Errorf("remounted ExpandedIDs = %v, want [g1 g3]", got)
	}

	// Different scope: nothing shared.
	other := NewExpansion(ctx, st, store.ViewKey{View: "explorer", Scope: "team/b", Field: "expanded-groups"})
	if len(other.ExpandedIDs()) != 0 {
		t.Errorf("distinct scope leaked state: %v", other.ExpandedIDs())
	}
}

func TestExpansionMalformedStateReadsEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	key := store.ViewKey{View: "explorer", Scope: "s", Field: "expanded-groups"}

	if err := st.Set(ctx, key.Key(), []byte("{broken"), 0); err != nil {
		t.Fatal(err)
	}

	e := NewExpansion(ctx, st, key)
	if len(e.ExpandedIDs()) != 0 {
		t.Errorf("malformed state should read as empty, got %v", e.ExpandedIDs())
	}
}

func TestFocusGroupHintConsumedOnce(t *testing.T) {
	ctx := context.Background()
	e := NewExpansion(ctx, store.NewMemory(), store.ViewKey{})

	if _, ok := e.TakeFocusGroup(); ok {
		t.Error("no hint should be pending initially")
	}

	e.Expand(ctx, "g1")
	id, ok := e.TakeFocusGroup()
	if !ok || id != "g1" {
		t.Fatalf("TakeFocusGroup = %q ok=%v, want g1", id, ok)
	}
	if _, ok := e.TakeFocusGroup(); ok {
		t.Error("hint must be cleared after consumption")
	}

	// Collapse records a hint too.
	e.Collapse(ctx, "g1")
	if id, ok := e.TakeFocusGroup(); !ok || id != "g1" {
		t.Errorf("TakeFocusGroup after collapse = %q ok=%v, want g1", id, ok)
	}
}

func TestToggleAll(t *testing.T) {
	ctx := context.Background()
	e := NewExpansion(ctx, store.NewMemory(), store.ViewKey{})
	e.Expand(ctx, "g1")
	e.TakeFocusGroup()

	e.ToggleAll(ctx, []string{"g1", "g2", "g3"}, func(id string) bool { return id != "g2" })

	if got := e.ExpandedIDs(); !slices.Equal(got, []string{"g1", "g3"}) {
		t.Errorf("ExpandedIDs = %v, want [g1 g3]", got)
	}
	if _, ok := e.TakeFocusGroup(); ok {
		t.Error("bulk toggles must not record a focus hint")
	}
}
