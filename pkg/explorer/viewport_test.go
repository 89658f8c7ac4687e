package explorer

import (
	"math"
	"testing"
	"time"

	"github.com/jruhland/assetscope/pkg/layout"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTierSweep(t *testing.T) {
	// Zooming from 1.0 down to 0.05 must walk the tiers in order at the
	// documented thresholds, never skipping or oscillating.
	sweep := []struct {
		scale float64
		want  Tier
	}{
		{1.0, TierFull},
		{0.61, TierFull},
		{0.6, TierFull},
		{0.59, TierMinimal},
		{0.3, TierMinimal},
		{0.15, TierMinimal},
		{0.14, TierGroupsOnly},
		{0.07, TierGroupsOnly},
		{0.06, TierGroupsOnly},
		{0.05, TierHidden},
	}

	last := TierFull
	for _, tc := range sweep {
		got := TierAt(tc.scale)
		if got != tc.want {
			t.Errorf("TierAt(%v) = %v, want %v", tc.scale, got, tc.want)
		}
		if got > last {
			t.Errorf("tier increased while zooming out: %v after %v", got, last)
		}
		last = got
	}
}

func TestSetScaleKeepsCenterFixed(t *testing.T) {
	v := NewViewport(1000, 800)
	v.Pan(120, -60)

	center := layout.Point{X: 500, Y: 400}
	before := v.ScreenToCanvas(center)
	v.SetScale(0.5)
	after := v.ScreenToCanvas(center)

	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Errorf("canvas point under center moved: %+v -> %+v", before, after)
	}
	if v.Scale() != 0.5 {
		t.Errorf("Scale = %v, want 0.5", v.Scale())
	}
}

func TestSetScaleClamps(t *testing.T) {
	v := NewViewport(1000, 800)

	v.SetScale(10)
	if v.Scale() != MaxScale {
		t.Errorf("Scale = %v, want clamped to %v", v.Scale(), MaxScale)
	}
	v.SetScale(0.001)
	if v.Scale() != MinScale {
		t.Errorf("Scale = %v, want clamped to %v", v.Scale(), MinScale)
	}
}

func TestZoomToNodeCentersBox(t *testing.T) {
	v := NewViewport(1000, 800)
	v.SetScale(0.1)

	box := layout.Box{X: 300, Y: 200, Width: 220, Height: 72}
	v.ZoomToNode(box, false)

	if v.Scale() < nodeZoomScale {
		t.Errorf("Scale = %v, want at least %v", v.Scale(), nodeZoomScale)
	}
	got := v.CanvasToScreen(box.Center())
	if !approx(got.X, 500) || !approx(got.Y, 400) {
		t.Errorf("node center lands at %+v, want screen center", got)
	}
}

func TestZoomToNodeKeepsHigherScale(t *testing.T) {
	v := NewViewport(1000, 800)
	v.SetScale(1.2)
	v.ZoomToNode(layout.Box{X: 10, Y: 10, Width: 100, Height: 40}, false)

	if v.Scale() != 1.2 {
		t.Errorf("Scale = %v, want 1.2 (already zoomed past the floor)", v.Scale())
	}
}

func TestAutocenterFits(t *testing.T) {
	v := NewViewport(1000, 800)
	v.Autocenter(2000, 800, false)

	// 2000x800 canvas in a 1000x800 view: width is the binding axis.
	if !approx(v.Scale(), 0.5) {
		t.Errorf("Scale = %v, want 0.5", v.Scale())
	}
	got := v.CanvasToScreen(layout.Point{X: 1000, Y: 400})
	if !approx(got.X, 500) || !approx(got.Y, 400) {
		t.Errorf("canvas center lands at %+v, want screen center", got)
	}

	// A canvas smaller than the view never scales past 1.0.
	v.Autocenter(100, 100, false)
	if !approx(v.Scale(), 1.0) {
		t.Errorf("Scale = %v, want capped at 1.0", v.Scale())
	}
}

func TestVisibleRectRoundTrips(t *testing.T) {
	v := NewViewport(1000, 800)
	v.SetScale(0.5)
	v.Pan(-100, 50)

	r := v.VisibleRect()
	tl := v.CanvasToScreen(layout.Point{X: r.X, Y: r.Y})
	br := v.CanvasToScreen(layout.Point{X: r.X + r.Width, Y: r.Y + r.Height})

	if !approx(tl.X, 0) || !approx(tl.Y, 0) {
		t.Errorf("top-left maps to %+v, want origin", tl)
	}
	if !approx(br.X, 1000) || !approx(br.Y, 800) {
		t.Errorf("bottom-right maps to %+v, want view extent", br)
	}
}

func TestAnimationNewestWins(t *testing.T) {
	clock := time.Unix(0, 0)
	v := NewViewport(1000, 800)
	v.now = func() time.Time { return clock }

	first := layout.Box{X: 0, Y: 0, Width: 100, Height: 100}
	second := layout.Box{X: 5000, Y: 5000, Width: 100, Height: 100}

	v.ZoomToBox(first, 1.0, true)
	clock = clock.Add(animDuration / 4)

	// A second command mid-flight replaces the animation; the logical
	// transform jumps straight to the new destination.
	v.ZoomToBox(second, 1.0, true)
	want := v.CanvasToScreen(second.Center())
	if !approx(want.X, 500) || !approx(want.Y, 400) {
		t.Fatalf("destination not centered on second box: %+v", want)
	}

	if !v.Animating() {
		t.Error("should be animating toward the second box")
	}
	clock = clock.Add(animDuration)
	if v.Animating() {
		t.Error("animation should have completed")
	}
	if v.Frame() != v.Transform() {
		t.Error("Frame should equal the destination after completion")
	}
}

func TestPanCancelsAnimation(t *testing.T) {
	clock := time.Unix(0, 0)
	v := NewViewport(1000, 800)
	v.now = func() time.Time { return clock }

	v.ZoomToBox(layout.Box{Width: 100, Height: 100}, 1.0, true)
	clock = clock.Add(animDuration / 10)
	v.Pan(10, 10)

	if v.Animating() {
		t.Error("Pan must interrupt an in-flight animation")
	}
	if v.Frame() != v.Transform() {
		t.Error("Frame should snap to the destination after Pan")
	}
}

func TestFrameInterpolates(t *testing.T) {
	clock := time.Unix(0, 0)
	v := NewViewport(1000, 800)
	v.now = func() time.Time { return clock }

	start := v.Transform()
	v.ZoomToBox(layout.Box{X: 1000, Y: 1000, Width: 100, Height: 100}, 1.0, true)
	dest := v.Transform()

	clock = clock.Add(animDuration / 2)
	mid := v.Frame()
	if mid == start || mid == dest {
		t.Errorf("mid-animation frame %+v should sit between %+v and %+v", mid, start, dest)
	}
	// Ease-out: more than half the distance covered at half time.
	total := dest.TX - start.TX
	if covered := mid.TX - start.TX; covered/total <= 0.5 {
		t.Errorf("ease-out should be past the midpoint, covered %v of %v", covered, total)
	}
}
