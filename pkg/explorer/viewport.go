package explorer

import (
	"time"

	"github.com/jruhland/assetscope/pkg/layout"
)

// Detail tier thresholds. Rendering fidelity is a pure function of the
// current scale, recomputed every render.
const (
	// ScaleMinimal is the scale above which nodes render with full detail.
	ScaleMinimal = 0.6
	// ScaleGroupsOnly is the scale below which individual nodes collapse
	// into their groups.
	ScaleGroupsOnly = 0.15
	// ScaleCutoff is the hard cutoff below which nothing renders.
	ScaleCutoff = 0.06
)

// Scale limits and navigation defaults.
const (
	MinScale = 0.02
	MaxScale = 1.5

	// nodeZoomScale is the minimum scale after centering on a node.
	nodeZoomScale = 0.75

	// animDuration bounds viewport animations.
	animDuration = 200 * time.Millisecond
)

// Tier is the rendering fidelity tier for a given scale.
type Tier int

const (
	TierHidden Tier = iota
	TierGroupsOnly
	TierMinimal
	TierFull
)

// TierAt maps a scale to its rendering tier.
func TierAt(scale float64) Tier {
	switch {
	case scale >= ScaleMinimal:
		return TierFull
	case scale >= ScaleGroupsOnly:
		return TierMinimal
	case scale >= ScaleCutoff:
		return TierGroupsOnly
	default:
		return TierHidden
	}
}

// Transform maps canvas space to screen space:
// screen = canvas*Scale + (TX, TY).
type Transform struct {
	Scale  float64
	TX, TY float64
}

// Viewport owns the pan/zoom state of one explorer view. All mutation
// goes through its operations; no other component writes viewport state.
//
// Operations take effect immediately - the logical transform always
// reflects the destination. When animate is requested, [Viewport.Frame]
// additionally interpolates from the previous transform for presentation.
// A newer command replaces any in-flight animation; nothing queues.
type Viewport struct {
	target Transform
	width  float64
	height float64

	anim *animation
	now  func() time.Time
}

type animation struct {
	from     Transform
	to       Transform
	start    time.Time
	duration time.Duration
}

// NewViewport creates a viewport with the given screen size.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		target: Transform{Scale: 1},
		width:  width,
		height: height,
		now:    time.Now,
	}
}

// SetSize updates the screen size (e.g. on terminal resize).
func (v *Viewport) SetSize(width, height float64) {
	v.width = width
	v.height = height
}

// Scale returns the logical (destination) scale.
func (v *Viewport) Scale() float64 { return v.target.Scale }

// Tier returns the rendering tier for the logical scale.
func (v *Viewport) Tier() Tier { return TierAt(v.target.Scale) }

// Transform returns the logical (destination) transform.
func (v *Viewport) Transform() Transform { return v.target }

// Pan shifts the viewport by a screen-space delta, interrupting any
// animation.
func (v *Viewport) Pan(dx, dy float64) {
	v.anim = nil
	v.target.TX += dx
	v.target.TY += dy
}

// SetScale zooms around the viewport center, keeping the canvas point
// under the center fixed. Interrupts any animation.
func (v *Viewport) SetScale(scale float64) {
	scale = clamp(scale, MinScale, MaxScale)
	center := layout.Point{X: v.width / 2, Y: v.height / 2}
	canvas := v.ScreenToCanvas(center)
	v.anim = nil
	v.target.Scale = scale
	v.target.TX = center.X - canvas.X*scale
	v.target.TY = center.Y - canvas.Y*scale
}

// ZoomToNode centers the viewport on a node's bounds, zooming in to at
// least nodeZoomScale.
func (v *Viewport) ZoomToNode(box layout.Box, animate bool) {
	scale := clamp(max(v.target.Scale, nodeZoomScale), MinScale, MaxScale)
	v.zoomToBox(box, scale, animate)
}

// ZoomToBox centers the viewport on bounds at an explicit scale.
func (v *Viewport) ZoomToBox(box layout.Box, scale float64, animate bool) {
	v.zoomToBox(box, clamp(scale, MinScale, MaxScale), animate)
}

// ZoomToGroup fits the viewport to a group's bounds. A targetScale of 0
// picks the scale that fits the bounds (capped at 1.0).
func (v *Viewport) ZoomToGroup(box layout.Box, animate bool, targetScale float64) {
	scale := targetScale
	if scale == 0 {
		scale = fitScale(v.width, v.height, box.Width, box.Height)
	}
	v.zoomToBox(box, clamp(scale, MinScale, MaxScale), animate)
}

// Autocenter fits and centers the whole canvas.
func (v *Viewport) Autocenter(canvasWidth, canvasHeight float64, animate bool) {
	scale := clamp(fitScale(v.width, v.height, canvasWidth, canvasHeight), MinScale, MaxScale)
	v.zoomToBox(layout.Box{Width: canvasWidth, Height: canvasHeight}, scale, animate)
}

func (v *Viewport) zoomToBox(box layout.Box, scale float64, animate bool) {
	from := v.Frame()
	center := box.Center()
	v.target = Transform{
		Scale: scale,
		TX:    v.width/2 - center.X*scale,
		TY:    v.height/2 - center.Y*scale,
	}
	if animate {
		v.anim = &animation{from: from, to: v.target, start: v.now(), duration: animDuration}
	} else {
		v.anim = nil
	}
}

// Frame returns the transform to present right now: the destination, or
// an ease-out interpolation toward it while an animation is running.
func (v *Viewport) Frame() Transform {
	if v.anim == nil {
		return v.target
	}
	elapsed := v.now().Sub(v.anim.start)
	if elapsed >= v.anim.duration {
		v.anim = nil
		return v.target
	}
	t := float64(elapsed) / float64(v.anim.duration)
	t = 1 - (1-t)*(1-t)*(1-t) // ease-out cubic
	return Transform{
		Scale: lerp(v.anim.from.Scale, v.anim.to.Scale, t),
		TX:    lerp(v.anim.from.TX, v.anim.to.TX, t),
		TY:    lerp(v.anim.from.TY, v.anim.to.TY, t),
	}
}

// Animating reports whether a presentation animation is in flight.
func (v *Viewport) Animating() bool {
	return v.anim != nil && v.now().Sub(v.anim.start) < v.anim.duration
}

// ScreenToCanvas converts a screen point to canvas space using the
// logical transform.
func (v *Viewport) ScreenToCanvas(p layout.Point) layout.Point {
	return layout.Point{
		X: (p.X - v.target.TX) / v.target.Scale,
		Y: (p.Y - v.target.TY) / v.target.Scale,
	}
}

// CanvasToScreen converts a canvas point to screen space.
func (v *Viewport) CanvasToScreen(p layout.Point) layout.Point {
	return layout.Point{
		X: p.X*v.target.Scale + v.target.TX,
		Y: p.Y*v.target.Scale + v.target.TY,
	}
}

// VisibleRect returns the canvas-space rectangle currently on screen.
func (v *Viewport) VisibleRect() layout.Box {
	topLeft := v.ScreenToCanvas(layout.Point{})
	return layout.Box{
		X:      topLeft.X,
		Y:      topLeft.Y,
		Width:  v.width / v.target.Scale,
		Height: v.height / v.target.Scale,
	}
}

func fitScale(viewW, viewH, canvasW, canvasH float64) float64 {
	if canvasW <= 0 || canvasH <= 0 {
		return 1
	}
	return min(viewW/canvasW, viewH/canvasH, 1.0)
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
